package metrics

import (
	"sort"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

// Inclusive upper bounds, in days since the last order.
const (
	recentMaxDays = 30
	warmMaxDays   = 90
	coldMaxDays   = 180
)

// ClassifyTier maps days since a customer's last order to a tier.
// Bands are checked in order, so a negative value (an order after the
// as-of date) is Recent.
func ClassifyTier(days int) models.Tier {
	switch {
	case days <= recentMaxDays:
		return models.TierRecent
	case days <= warmMaxDays:
		return models.TierWarm
	case days <= coldMaxDays:
		return models.TierCold
	default:
		return models.TierLost
	}
}

// DefaultAsOf is the latest order date in txns, zero when txns is empty.
// Pass the unfiltered dataset so tiers do not move with status, rep or city
// filters.
func DefaultAsOf(txns []models.Transaction) time.Time {
	var latest time.Time
	for _, t := range txns {
		if d := day(t.OrderDate); d.After(latest) {
			latest = d
		}
	}
	return latest
}

// Classify assigns every customer in filtered a tier from its latest
// visible order.
func Classify(filtered []models.Transaction, asOf time.Time) map[string]models.Tier {
	last := map[string]time.Time{}
	for _, t := range filtered {
		d := day(t.OrderDate)
		if prev, ok := last[t.CustomerID]; !ok || d.After(prev) {
			last[t.CustomerID] = d
		}
	}
	out := make(map[string]models.Tier, len(last))
	for id, d := range last {
		out[id] = ClassifyTier(daysBetween(d, asOf))
	}
	return out
}

// Recency builds the tier report: per-customer tiers, tier counts, and the
// per-representative breakdown where each (customer, representative) pair is
// classified from that pair's latest order.
func Recency(filtered []models.Transaction, asOf time.Time) models.RecencyReport {
	rep := models.RecencyReport{
		AsOf:      day(asOf),
		Customers: Classify(filtered, asOf),
		Counts:    make(map[models.Tier]int, len(models.Tiers)),
		ByRep:     []models.RepTierCount{},
	}
	for _, tier := range models.Tiers {
		rep.Counts[tier] = 0
	}
	for _, tier := range rep.Customers {
		rep.Counts[tier]++
	}

	type pair struct{ rep, customer string }
	last := map[pair]time.Time{}
	for _, t := range filtered {
		k := pair{t.Representative, t.CustomerID}
		d := day(t.OrderDate)
		if prev, ok := last[k]; !ok || d.After(prev) {
			last[k] = d
		}
	}
	type cell struct {
		rep  string
		tier models.Tier
	}
	counts := map[cell]int{}
	for k, d := range last {
		counts[cell{k.rep, ClassifyTier(daysBetween(d, asOf))}]++
	}
	for c, n := range counts {
		rep.ByRep = append(rep.ByRep, models.RepTierCount{Representative: c.rep, Tier: c.tier, Count: n})
	}
	sort.Slice(rep.ByRep, func(i, j int) bool {
		a, b := rep.ByRep[i], rep.ByRep[j]
		if a.Representative != b.Representative {
			return a.Representative < b.Representative
		}
		return tierRank(a.Tier) < tierRank(b.Tier)
	})
	return rep
}

func daysBetween(from, to time.Time) int {
	return int(day(to).Sub(day(from)).Hours() / 24)
}

func tierRank(t models.Tier) int {
	for i, v := range models.Tiers {
		if v == t {
			return i
		}
	}
	return len(models.Tiers)
}
