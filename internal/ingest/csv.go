package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyFile     = errors.New("empty file")
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
}

type field struct {
	name     string
	aliases  []string
	required bool
	idx      *int
}

// ParseSales reads a sales export. Headers are matched case-insensitively
// with spaces folded to underscores. Rows whose date cannot be parsed are
// dropped and counted; unparseable amounts become zero.
func ParseSales(r io.Reader) ([]models.Transaction, int, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, 0, err
	}
	var date, order, custID, custName, city, rep, status, value, commission int
	if err := h.bind([]field{
		{"ORDER_DATE", []string{"ORDER_DATE", "DATE", "CREATION_DATE"}, true, &date},
		{"ORDER_NUMBER", []string{"ORDER_NUMBER", "ORDER_NO", "ORDER_ID"}, true, &order},
		{"CUSTOMER_ID", []string{"CUSTOMER_ID"}, true, &custID},
		{"CUSTOMER_NAME", []string{"CUSTOMER_NAME"}, false, &custName},
		{"CITY", []string{"CITY"}, false, &city},
		{"SALE_REPRESENTATIVE", []string{"SALE_REPRESENTATIVE", "SALES_REPRESENTATIVE", "SALES_REP"}, true, &rep},
		{"STATUS", []string{"STATUS"}, true, &status},
		{"TOTAL_VALUES", []string{"TOTAL_VALUES", "TOTAL_VALUE"}, true, &value},
		{"TOTAL_COMMISSION", []string{"TOTAL_COMMISSION", "COMMISSION"}, false, &commission},
	}); err != nil {
		return nil, 0, err
	}

	out := []models.Transaction{}
	skipped := 0
	err = eachRow(cr, &skipped, func(row []string) {
		d, ok := parseDate(cell(row, date))
		if !ok {
			skipped++
			return
		}
		out = append(out, models.Transaction{
			OrderDate:       d,
			OrderNumber:     cell(row, order),
			CustomerID:      cell(row, custID),
			CustomerName:    cell(row, custName),
			City:            cell(row, city),
			Representative:  cell(row, rep),
			Status:          cell(row, status),
			TotalValue:      parseAmount(cell(row, value)),
			TotalCommission: parseAmount(cell(row, commission)),
		})
	})
	if err != nil {
		return nil, skipped, err
	}
	return out, skipped, nil
}

// ParseLineItems reads an order-lines export. Rows without a SKU are
// dropped. When every line total is zero the totals are rebuilt from
// quantity × unit price.
func ParseLineItems(r io.Reader) ([]models.LineItem, int, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, 0, err
	}
	var order, sku, name, qty, unit, total int
	if err := h.bind([]field{
		{"ORDER_ID", []string{"ORDER_ID", "MATRIX_ORDER_ID", "ORDER_NUMBER"}, true, &order},
		{"SKU", []string{"SKU", "ORDER_LINES/PRODUCT/REFERENCE", "PRODUCT_REFERENCE", "REFERENCE"}, true, &sku},
		{"PRODUCT_NAME", []string{"PRODUCT_NAME", "ORDER_LINES/PRODUCT/NAME"}, false, &name},
		{"QUANTITY", []string{"QUANTITY", "ORDER_LINES/QUANTITY"}, false, &qty},
		{"UNIT_PRICE", []string{"UNIT_PRICE", "ORDER_LINES/UNIT_PRICE"}, false, &unit},
		{"LINE_TOTAL", []string{"LINE_TOTAL", "ORDER_LINES/TOTAL", "TOTAL"}, false, &total},
	}); err != nil {
		return nil, 0, err
	}

	out := []models.LineItem{}
	skipped := 0
	err = eachRow(cr, &skipped, func(row []string) {
		li := models.LineItem{
			OrderID:     cell(row, order),
			SKU:         cell(row, sku),
			ProductName: cell(row, name),
			Quantity:    parseQuantity(cell(row, qty)),
			UnitPrice:   parseAmount(cell(row, unit)),
			Total:       parseAmount(cell(row, total)),
		}
		if li.SKU == "" {
			skipped++
			return
		}
		out = append(out, li)
	})
	if err != nil {
		return nil, skipped, err
	}
	rebuildZeroTotals(out)
	return out, skipped, nil
}

// rebuildZeroTotals replaces every line total with quantity × unit price
// when the totals sum to zero, as exports without a total column do.
func rebuildZeroTotals(items []models.LineItem) {
	var sum decimal.Decimal
	for _, li := range items {
		sum = sum.Add(li.Total)
	}
	if !sum.IsZero() {
		return
	}
	for i := range items {
		items[i].Total = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
	}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

type header map[string]int

func readHeader(cr *csv.Reader) (header, error) {
	row, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := header{}
	for i, name := range row {
		n := normalizeHeader(name)
		if _, dup := h[n]; !dup {
			h[n] = i
		}
	}
	return h, nil
}

// bind resolves every field to a column index, -1 when absent, and reports
// all missing required columns at once.
func (h header) bind(fields []field) error {
	var missing []string
	for _, f := range fields {
		*f.idx = -1
		for _, a := range f.aliases {
			if i, ok := h[a]; ok {
				*f.idx = i
				break
			}
		}
		if *f.idx < 0 && f.required {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func eachRow(cr *csv.Reader, skipped *int, fn func(row []string)) error {
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				*skipped++
				continue
			}
			return fmt.Errorf("read row: %w", err)
		}
		fn(row)
	}
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToUpper(h)), "_")
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts "1,234.56", "$ 99" and the like; anything else is 0.
func parseAmount(s string) decimal.Decimal {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', '€', '£', ' ':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseQuantity(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(parseAmount(s).IntPart())
}
