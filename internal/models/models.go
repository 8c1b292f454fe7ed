package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monetary values serialize as JSON numbers, not quoted strings.
func init() { decimal.MarshalJSONWithoutQuotes = true }

// Transaction is one sales order as loaded by an ingestion collaborator.
// OrderDate is a calendar date; the time of day is ignored everywhere.
type Transaction struct {
	OrderDate       time.Time       `json:"order_date"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	City            string          `json:"city"`
	Representative  string          `json:"sale_representative"`
	Status          string          `json:"status"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// LineItem is one order line of the optional SKU dataset. OrderID joins
// loosely to Transaction.OrderNumber.
type LineItem struct {
	OrderID     string          `json:"order_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Dataset is what one analysis session loads. A nil LineItems means the
// SKU file was never supplied, an empty non-nil slice means it was
// supplied with no rows.
type Dataset struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	LoadedAt     time.Time     `json:"loaded_at"`
	Transactions []Transaction `json:"-"`
	LineItems    []LineItem    `json:"-"`
	Skipped      int           `json:"skipped"`
}

// HasLineItems reports whether a SKU dataset was supplied.
func (d *Dataset) HasLineItems() bool { return d.LineItems != nil }

// Criteria restricts which transactions enter the filtered view.
// A zero Start or End leaves that side of the range open; empty sets
// mean no restriction.
type Criteria struct {
	Start           time.Time `json:"start,omitempty"`
	End             time.Time `json:"end,omitempty"`
	Representatives []string  `json:"representatives,omitempty"`
	Statuses        []string  `json:"statuses,omitempty"`
	Cities          []string  `json:"cities,omitempty"`
}

type Tier string

const (
	TierRecent Tier = "Recent"
	TierWarm   Tier = "Warm"
	TierCold   Tier = "Cold"
	TierLost   Tier = "Lost"
)

// Tiers lists every tier in band order.
var Tiers = []Tier{TierRecent, TierWarm, TierCold, TierLost}

// KPIs are the scalar aggregates of a filtered view. CommissionRate is a
// percentage of revenue and is nil when revenue is zero.
type KPIs struct {
	TotalRevenue            decimal.Decimal `json:"total_revenue"`
	TotalCommission         decimal.Decimal `json:"total_commission"`
	OrderCount              int             `json:"order_count"`
	AverageOrderValue       decimal.Decimal `json:"average_order_value"`
	CommissionRate          *float64        `json:"commission_rate"`
	DistinctCustomers       int             `json:"distinct_customers"`
	DistinctRepresentatives int             `json:"distinct_representatives"`
	DistinctCities          int             `json:"distinct_cities"`
}

type StatusCount struct {
	Status  string          `json:"status"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type RepPerformance struct {
	Representative string          `json:"sale_representative"`
	Revenue        decimal.Decimal `json:"revenue"`
	Commission     decimal.Decimal `json:"commission"`
	Orders         int             `json:"orders"`
	Customers      int             `json:"customers"`
}

type CustomerPerformance struct {
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	City           string          `json:"city"`
	Revenue        decimal.Decimal `json:"revenue"`
	Orders         int             `json:"orders"`
	LastOrder      time.Time       `json:"last_order"`
	Representative string          `json:"sale_representative"`
}

type ProductPerformance struct {
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	Revenue          decimal.Decimal `json:"revenue"`
	Orders           int             `json:"orders"`
	MatchedOrders    int             `json:"matched_orders"`
	AverageUnitPrice decimal.Decimal `json:"average_unit_price"`
}

type ProductReport struct {
	TotalRevenue decimal.Decimal      `json:"total_revenue"`
	UnitsSold    int                  `json:"units_sold"`
	DistinctSKUs int                  `json:"distinct_skus"`
	Products     []ProductPerformance `json:"products"`
}

// Metrics is the output of the aggregation engine. Products is nil when no
// line items were supplied.
type Metrics struct {
	KPIs            KPIs                  `json:"kpis"`
	Statuses        []StatusCount         `json:"statuses"`
	Representatives []RepPerformance      `json:"representatives"`
	Customers       []CustomerPerformance `json:"customers"`
	Products        *ProductReport        `json:"products"`
}

type RepTierCount struct {
	Representative string `json:"sale_representative"`
	Tier           Tier   `json:"tier"`
	Count          int    `json:"count"`
}

type RecencyReport struct {
	AsOf      time.Time       `json:"as_of"`
	Customers map[string]Tier `json:"customers"`
	Counts    map[Tier]int    `json:"counts"`
	ByRep     []RepTierCount  `json:"by_representative"`
}

// TrendPoint is one calendar-month bucket. GrowthPct is nil for the first
// bucket and whenever the previous bucket's revenue is zero.
type TrendPoint struct {
	Month     string          `json:"month"`
	Revenue   decimal.Decimal `json:"revenue"`
	Orders    int             `json:"orders"`
	GrowthPct *float64        `json:"growth_pct"`
}

type TrendReport struct {
	Points       []TrendPoint    `json:"points"`
	AvgGrowthPct *float64        `json:"avg_growth_pct"`
	PeakMonth    string          `json:"peak_month,omitempty"`
	PeakRevenue  decimal.Decimal `json:"peak_revenue"`
}

type Report struct {
	DatasetID    string        `json:"dataset_id,omitempty"`
	Criteria     Criteria      `json:"criteria"`
	Metrics      Metrics       `json:"metrics"`
	Recency      RecencyReport `json:"recency"`
	Trends       TrendReport   `json:"trends"`
	RecentOrders []Transaction `json:"recent_orders"`
}
