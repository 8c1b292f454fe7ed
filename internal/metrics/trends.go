package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

const monthLayout = "2006-01"

// Trends buckets filtered by calendar month, oldest first. Months without
// orders are left out rather than zero-filled, so growth compares each
// bucket with the previous bucket present.
func Trends(filtered []models.Transaction) []models.TrendPoint {
	buckets := map[time.Time]*models.TrendPoint{}
	for _, t := range filtered {
		d := day(t.OrderDate)
		k := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		p, ok := buckets[k]
		if !ok {
			p = &models.TrendPoint{Month: k.Format(monthLayout)}
			buckets[k] = p
		}
		p.Revenue = p.Revenue.Add(t.TotalValue)
		p.Orders++
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]models.TrendPoint, 0, len(keys))
	for i, k := range keys {
		p := *buckets[k]
		if i > 0 {
			p.GrowthPct = growth(out[i-1].Revenue, p.Revenue)
		}
		out = append(out, p)
	}
	return out
}

// SummarizeTrends adds the mean of the available growth values and the
// peak month. The earliest month wins a revenue tie.
func SummarizeTrends(points []models.TrendPoint) models.TrendReport {
	rep := models.TrendReport{Points: points}
	var sum float64
	n := 0
	for i, p := range points {
		if p.GrowthPct != nil {
			sum += *p.GrowthPct
			n++
		}
		if i == 0 || p.Revenue.GreaterThan(rep.PeakRevenue) {
			rep.PeakMonth = p.Month
			rep.PeakRevenue = p.Revenue
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		rep.AvgGrowthPct = &avg
	}
	return rep
}

func growth(prev, cur decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	v := cur.Sub(prev).Div(prev).Mul(hundred).InexactFloat64()
	return &v
}
