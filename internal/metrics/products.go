package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

// Products aggregates line items by SKU. Every line item counts, whether or
// not its order id matches a transaction; MatchedOrders only counts order ids
// present in filtered. Rows are ranked by revenue, SKU ascending on ties.
func Products(items []models.LineItem, filtered []models.Transaction, topN int) models.ProductReport {
	visible := make(map[string]struct{}, len(filtered))
	for _, t := range filtered {
		visible[t.OrderNumber] = struct{}{}
	}

	type acc struct {
		row       models.ProductPerformance
		priceSum  decimal.Decimal
		orders    map[string]struct{}
		matched   map[string]struct{}
		lineCount int64
	}
	groups := map[string]*acc{}
	var rep models.ProductReport
	for _, li := range items {
		rep.TotalRevenue = rep.TotalRevenue.Add(li.Total)
		rep.UnitsSold += li.Quantity

		a, ok := groups[li.SKU]
		if !ok {
			a = &acc{
				row:     models.ProductPerformance{SKU: li.SKU},
				orders:  map[string]struct{}{},
				matched: map[string]struct{}{},
			}
			groups[li.SKU] = a
		}
		if a.row.ProductName == "" {
			a.row.ProductName = li.ProductName
		}
		a.row.Quantity += li.Quantity
		a.row.Revenue = a.row.Revenue.Add(li.Total)
		a.priceSum = a.priceSum.Add(li.UnitPrice)
		a.lineCount++
		a.orders[li.OrderID] = struct{}{}
		if _, ok := visible[li.OrderID]; ok {
			a.matched[li.OrderID] = struct{}{}
		}
	}

	rows := make([]models.ProductPerformance, 0, len(groups))
	for _, a := range groups {
		a.row.Orders = len(a.orders)
		a.row.MatchedOrders = len(a.matched)
		a.row.AverageUnitPrice = safeDiv(a.priceSum, decimal.NewFromInt(a.lineCount))
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].SKU < rows[j].SKU
	})
	rep.DistinctSKUs = len(rows)
	rep.Products = head(rows, topN)
	return rep
}
