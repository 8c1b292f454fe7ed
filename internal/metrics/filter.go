package metrics

import (
	"strings"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

// Filter returns the transactions that satisfy c, in input order.
// The result never aliases txns. A range with Start after End matches
// nothing.
func Filter(txns []models.Transaction, c models.Criteria) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	if !c.Start.IsZero() && !c.End.IsZero() && day(c.Start).After(day(c.End)) {
		return out
	}
	reps := toSet(c.Representatives)
	statuses := toSet(c.Statuses)
	cities := toSet(c.Cities)

	for _, t := range txns {
		if !inRange(t.OrderDate, c.Start, c.End) {
			continue
		}
		if !allowed(reps, t.Representative) || !allowed(statuses, t.Status) || !allowed(cities, t.City) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func inRange(d, from, to time.Time) bool {
	d = day(d)
	if !from.IsZero() && d.Before(day(from)) {
		return false
	}
	if !to.IsZero() && d.After(day(to)) {
		return false
	}
	return true
}

// allowed treats an empty set as no restriction. Record values must match
// a set member exactly.
func allowed(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out[it] = struct{}{}
		}
	}
	return out
}

// day drops the clock part and pins the calendar date to UTC so day
// arithmetic is exact.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
