package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/metrics"
	"github.com/AngelCh415/sales-analytics/internal/models"
)

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0.00",
		"999.5":       "999.50",
		"1234567.891": "1,234,567.89",
		"-4200":       "-4,200.00",
	}
	for in, want := range cases {
		if got := money(decimal.RequireFromString(in)); got != want {
			t.Fatalf("money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderReport(t *testing.T) {
	d := func(s string) time.Time { v, _ := time.Parse("2006-01-02", s); return v }
	ds := &models.Dataset{
		Name: "orders.csv",
		Transactions: []models.Transaction{
			{OrderDate: d("2024-01-05"), OrderNumber: "O1", CustomerID: "C1", CustomerName: "Acme", Representative: "A", Status: "Paid", TotalValue: decimal.NewFromInt(1500)},
			{OrderDate: d("2024-02-05"), OrderNumber: "O2", CustomerID: "C2", Representative: "B", Status: "Paid", TotalValue: decimal.NewFromInt(500)},
		},
	}
	var buf bytes.Buffer
	render(&buf, ds, metrics.Analyze(ds, models.Criteria{}, metrics.DefaultOptions()))
	out := buf.String()
	for _, want := range []string{"orders.csv", "2,000.00", "Acme", "C2", "no order lines supplied", "2024-02", "Recent"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
