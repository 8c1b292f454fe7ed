package metrics

import (
	"testing"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

func TestAnalyzeDefaultsAsOfToUnfilteredDataset(t *testing.T) {
	ds := &models.Dataset{ID: "ds-1", Transactions: scenario()}
	rep := Analyze(ds, models.Criteria{Statuses: []string{"Paid"}}, DefaultOptions())

	if !rep.Recency.AsOf.Equal(date("2024-02-15")) {
		t.Fatalf("as-of should come from the unfiltered dataset, got %v", rep.Recency.AsOf)
	}
	if len(rep.Recency.Customers) != 1 || rep.Recency.Customers["C1"] != models.TierRecent {
		t.Fatalf("unexpected tiers: %v", rep.Recency.Customers)
	}
	if !rep.Metrics.KPIs.TotalRevenue.Equal(dec("300")) {
		t.Fatalf("total revenue = %s", rep.Metrics.KPIs.TotalRevenue)
	}
	if rep.DatasetID != "ds-1" {
		t.Fatalf("dataset id = %q", rep.DatasetID)
	}
}

func TestAnalyzeAsOfOverride(t *testing.T) {
	ds := &models.Dataset{Transactions: scenario()}
	opts := DefaultOptions()
	opts.AsOf = date("2024-06-01")
	rep := Analyze(ds, models.Criteria{}, opts)
	// 2024-02-15 -> 2024-06-01 is 107 days.
	if rep.Recency.Customers["C2"] != models.TierCold {
		t.Fatalf("C2 tier = %s", rep.Recency.Customers["C2"])
	}
	if rep.Recency.Customers["C1"] != models.TierCold {
		t.Fatalf("C1 tier = %s", rep.Recency.Customers["C1"])
	}
}

func TestAnalyzeLeavesInputUntouched(t *testing.T) {
	in := scenario()
	ds := &models.Dataset{Transactions: in}
	rep := Analyze(ds, models.Criteria{}, Options{RecentOrders: 2})
	if len(rep.RecentOrders) != 2 || rep.RecentOrders[0].OrderNumber != "O1" {
		t.Fatalf("unexpected recent orders: %v", orderNumbers(rep.RecentOrders))
	}
	rep.RecentOrders[0].CustomerID = "mutated"
	if ds.Transactions[0].CustomerID != "C1" {
		t.Fatal("report shares storage with the dataset")
	}
	if rep.Metrics.Products != nil {
		t.Fatal("no line items supplied")
	}
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	rep := Analyze(&models.Dataset{}, models.Criteria{}, DefaultOptions())
	if rep.Metrics.KPIs.OrderCount != 0 || len(rep.Trends.Points) != 0 || len(rep.Recency.Customers) != 0 {
		t.Fatalf("unexpected report for empty dataset: %+v", rep)
	}
}
