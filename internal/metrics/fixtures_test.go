package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(d, order, customer, rep, status, city, value string) models.Transaction {
	v := dec(value)
	return models.Transaction{
		OrderDate:       date(d),
		OrderNumber:     order,
		CustomerID:      customer,
		CustomerName:    "Customer " + customer,
		City:            city,
		Representative:  rep,
		Status:          status,
		TotalValue:      v,
		TotalCommission: v.Div(decimal.NewFromInt(10)),
	}
}

// scenario is the three-order example: two paid orders for C1 by A, one
// pending order for C2 by B.
func scenario() []models.Transaction {
	return []models.Transaction{
		txn("2024-01-05", "O1", "C1", "A", "Paid", "Paris", "100"),
		txn("2024-02-10", "O2", "C1", "A", "Paid", "Paris", "200"),
		txn("2024-02-15", "O3", "C2", "B", "Pending", "Lyon", "50"),
	}
}

func orderNumbers(txns []models.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.OrderNumber)
	}
	return out
}
