package metrics

import (
	"github.com/AngelCh415/sales-analytics/internal/models"
)

// Analyze filters the dataset once and derives every report from that view.
func Analyze(ds *models.Dataset, c models.Criteria, opts Options) models.Report {
	return analyze(ds, c, Filter(ds.Transactions, c), opts)
}

// analyze derives the report from a view already filtered by c.
func analyze(ds *models.Dataset, c models.Criteria, filtered []models.Transaction, opts Options) models.Report {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = DefaultAsOf(ds.Transactions)
	}
	return models.Report{
		DatasetID:    ds.ID,
		Criteria:     c,
		Metrics:      Aggregate(filtered, ds.LineItems, opts),
		Recency:      Recency(filtered, asOf),
		Trends:       SummarizeTrends(Trends(filtered)),
		RecentOrders: head(filtered, opts.RecentOrders),
	}
}
