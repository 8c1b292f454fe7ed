package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Options tune the ranked outputs. A zero or negative limit keeps every row.
type Options struct {
	TopCustomers int
	TopProducts  int
	TopReps      int
	RecentOrders int
	// AsOf overrides the recency reference date. Zero means the latest
	// order date of the unfiltered dataset.
	AsOf time.Time
}

func DefaultOptions() Options {
	return Options{TopCustomers: 10, TopProducts: 15, RecentOrders: 20}
}

// Aggregate derives every grouped aggregate from one filtered view.
// A nil items slice means no SKU data was supplied and leaves
// Metrics.Products nil.
func Aggregate(filtered []models.Transaction, items []models.LineItem, opts Options) models.Metrics {
	m := models.Metrics{
		KPIs:            Summarize(filtered),
		Statuses:        ByStatus(filtered),
		Representatives: head(ByRepresentative(filtered), opts.TopReps),
		Customers:       head(ByCustomer(filtered), opts.TopCustomers),
	}
	if items != nil {
		p := Products(items, filtered, opts.TopProducts)
		m.Products = &p
	}
	return m
}

func Summarize(txns []models.Transaction) models.KPIs {
	var k models.KPIs
	customers := map[string]struct{}{}
	reps := map[string]struct{}{}
	cities := map[string]struct{}{}
	for _, t := range txns {
		k.TotalRevenue = k.TotalRevenue.Add(t.TotalValue)
		k.TotalCommission = k.TotalCommission.Add(t.TotalCommission)
		customers[t.CustomerID] = struct{}{}
		reps[t.Representative] = struct{}{}
		if t.City != "" {
			cities[t.City] = struct{}{}
		}
	}
	k.OrderCount = len(txns)
	k.AverageOrderValue = safeDiv(k.TotalRevenue, decimal.NewFromInt(int64(k.OrderCount)))
	k.CommissionRate = percentOf(k.TotalCommission, k.TotalRevenue)
	k.DistinctCustomers = len(customers)
	k.DistinctRepresentatives = len(reps)
	k.DistinctCities = len(cities)
	return k
}

// ByStatus counts orders and revenue per status value present in txns,
// most frequent first.
func ByStatus(txns []models.Transaction) []models.StatusCount {
	idx := map[string]int{}
	out := []models.StatusCount{}
	for _, t := range txns {
		i, ok := idx[t.Status]
		if !ok {
			i = len(out)
			idx[t.Status] = i
			out = append(out, models.StatusCount{Status: t.Status})
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(t.TotalValue)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// ByRepresentative ranks representatives by revenue, name ascending on ties.
func ByRepresentative(txns []models.Transaction) []models.RepPerformance {
	type acc struct {
		row       models.RepPerformance
		customers map[string]struct{}
	}
	groups := map[string]*acc{}
	for _, t := range txns {
		a, ok := groups[t.Representative]
		if !ok {
			a = &acc{row: models.RepPerformance{Representative: t.Representative}, customers: map[string]struct{}{}}
			groups[t.Representative] = a
		}
		a.row.Revenue = a.row.Revenue.Add(t.TotalValue)
		a.row.Commission = a.row.Commission.Add(t.TotalCommission)
		a.row.Orders++
		a.customers[t.CustomerID] = struct{}{}
	}

	out := make([]models.RepPerformance, 0, len(groups))
	for _, a := range groups {
		a.row.Customers = len(a.customers)
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Representative < out[j].Representative
	})
	return out
}

// ByCustomer ranks customers by revenue, customer id ascending on ties.
// The attributed representative is the one on most of the customer's
// orders; the first one met wins a tie.
func ByCustomer(txns []models.Transaction) []models.CustomerPerformance {
	type acc struct {
		row      models.CustomerPerformance
		repCount map[string]int
		repOrder []string
	}
	groups := map[string]*acc{}
	for _, t := range txns {
		a, ok := groups[t.CustomerID]
		if !ok {
			a = &acc{
				row: models.CustomerPerformance{
					CustomerID:   t.CustomerID,
					CustomerName: t.CustomerName,
					City:         t.City,
					LastOrder:    day(t.OrderDate),
				},
				repCount: map[string]int{},
			}
			groups[t.CustomerID] = a
		}
		a.row.Revenue = a.row.Revenue.Add(t.TotalValue)
		a.row.Orders++
		if d := day(t.OrderDate); d.After(a.row.LastOrder) {
			a.row.LastOrder = d
		}
		if _, seen := a.repCount[t.Representative]; !seen {
			a.repOrder = append(a.repOrder, t.Representative)
		}
		a.repCount[t.Representative]++
	}

	out := make([]models.CustomerPerformance, 0, len(groups))
	for _, a := range groups {
		best := 0
		for _, rep := range a.repOrder {
			if n := a.repCount[rep]; n > best {
				best = n
				a.row.Representative = rep
			}
		}
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

func head[T any](rows []T, n int) []T {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// percentOf returns part/whole*100, or nil when whole is zero.
func percentOf(part, whole decimal.Decimal) *float64 {
	if whole.IsZero() {
		return nil
	}
	v := part.Div(whole).Mul(hundred).InexactFloat64()
	return &v
}
