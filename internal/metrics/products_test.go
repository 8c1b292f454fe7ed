package metrics

import (
	"testing"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

func line(order, sku, name string, qty int, unit, total string) models.LineItem {
	return models.LineItem{OrderID: order, SKU: sku, ProductName: name, Quantity: qty, UnitPrice: dec(unit), Total: dec(total)}
}

func TestProductsJoinIsBestEffort(t *testing.T) {
	items := []models.LineItem{
		line("O1", "SKU-1", "Widget", 2, "30", "60"),
		line("O2", "SKU-1", "", 1, "40", "40"),
		line("O9", "SKU-2", "Gadget", 5, "18", "90"),
	}
	rep := Products(items, scenario(), 0)

	if !rep.TotalRevenue.Equal(dec("190")) || rep.UnitsSold != 8 || rep.DistinctSKUs != 2 {
		t.Fatalf("unexpected totals: %+v", rep)
	}
	if len(rep.Products) != 2 || rep.Products[0].SKU != "SKU-1" {
		t.Fatalf("unexpected ranking: %+v", rep.Products)
	}
	w := rep.Products[0]
	if w.ProductName != "Widget" || w.Quantity != 3 || w.Orders != 2 || w.MatchedOrders != 2 {
		t.Fatalf("unexpected widget row: %+v", w)
	}
	if !w.AverageUnitPrice.Equal(dec("35")) {
		t.Fatalf("average unit price = %s", w.AverageUnitPrice)
	}
	g := rep.Products[1]
	if g.Orders != 1 || g.MatchedOrders != 0 || !g.Revenue.Equal(dec("90")) {
		t.Fatalf("unmatched line item must still be aggregated: %+v", g)
	}
}

func TestProductsCountsDistinctOrders(t *testing.T) {
	items := []models.LineItem{
		line("O1", "SKU-1", "Widget", 1, "10", "10"),
		line("O1", "SKU-1", "Widget", 1, "10", "10"),
	}
	rep := Products(items, nil, 0)
	if rep.Products[0].Orders != 1 || rep.Products[0].Quantity != 2 {
		t.Fatalf("unexpected row: %+v", rep.Products[0])
	}
	if rep.Products[0].MatchedOrders != 0 {
		t.Fatal("no transactions, nothing can match")
	}
}

func TestProductsTopNAndTieBreak(t *testing.T) {
	items := []models.LineItem{
		line("O1", "B", "", 1, "5", "5"),
		line("O1", "A", "", 1, "5", "5"),
		line("O1", "C", "", 1, "1", "1"),
	}
	rep := Products(items, nil, 2)
	if len(rep.Products) != 2 || rep.Products[0].SKU != "A" || rep.Products[1].SKU != "B" {
		t.Fatalf("unexpected top products: %+v", rep.Products)
	}
	if rep.DistinctSKUs != 3 {
		t.Fatalf("distinct skus counts every product, got %d", rep.DistinctSKUs)
	}
}
