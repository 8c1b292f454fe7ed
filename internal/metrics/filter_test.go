package metrics

import (
	"reflect"
	"testing"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	in := scenario()
	got := Filter(in, models.Criteria{})
	if !reflect.DeepEqual(orderNumbers(got), []string{"O1", "O2", "O3"}) {
		t.Fatalf("unexpected orders: %v", orderNumbers(got))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	c := models.Criteria{Start: date("2024-01-01"), End: date("2024-02-12"), Representatives: []string{"A", "B"}}
	once := Filter(scenario(), c)
	twice := Filter(once, c)
	if !reflect.DeepEqual(orderNumbers(once), orderNumbers(twice)) {
		t.Fatalf("filter not idempotent: %v vs %v", orderNumbers(once), orderNumbers(twice))
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	in := scenario()
	got := Filter(in, models.Criteria{})
	got[0].Status = "Changed"
	if in[0].Status != "Paid" {
		t.Fatal("filter result shares storage with its input")
	}
}

func TestFilterStatusSet(t *testing.T) {
	got := Filter(scenario(), models.Criteria{Statuses: []string{"Paid"}})
	if !reflect.DeepEqual(orderNumbers(got), []string{"O1", "O2"}) {
		t.Fatalf("unexpected orders: %v", orderNumbers(got))
	}
}

func TestFilterDateRangeIsInclusive(t *testing.T) {
	got := Filter(scenario(), models.Criteria{Start: date("2024-02-10"), End: date("2024-02-15")})
	if !reflect.DeepEqual(orderNumbers(got), []string{"O2", "O3"}) {
		t.Fatalf("unexpected orders: %v", orderNumbers(got))
	}

	open := Filter(scenario(), models.Criteria{Start: date("2024-02-01")})
	if !reflect.DeepEqual(orderNumbers(open), []string{"O2", "O3"}) {
		t.Fatalf("open-ended range: %v", orderNumbers(open))
	}
}

func TestFilterInvertedRangeIsEmpty(t *testing.T) {
	got := Filter(scenario(), models.Criteria{Start: date("2024-03-01"), End: date("2024-01-01")})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestFilterCombinesDimensions(t *testing.T) {
	got := Filter(scenario(), models.Criteria{Representatives: []string{"A"}, Cities: []string{"Lyon"}})
	if len(got) != 0 {
		t.Fatalf("expected no match across dimensions, got %v", orderNumbers(got))
	}
	got = Filter(scenario(), models.Criteria{Representatives: []string{" B "}, Cities: []string{"Lyon", "Paris"}})
	if !reflect.DeepEqual(orderNumbers(got), []string{"O3"}) {
		t.Fatalf("unexpected orders: %v", orderNumbers(got))
	}
}

func TestFilterSetMatchIsExact(t *testing.T) {
	in := []models.Transaction{
		txn("2024-01-05", "O1", "C1", " A", "Paid", "Paris", "1"),
		txn("2024-01-06", "O2", "C1", "A", "paid", "Paris", "1"),
		txn("2024-01-07", "O3", "C1", "A", "Paid", "Paris", "1"),
	}
	got := Filter(in, models.Criteria{Representatives: []string{" A "}, Statuses: []string{"Paid"}})
	if !reflect.DeepEqual(orderNumbers(got), []string{"O3"}) {
		t.Fatalf("unexpected orders: %v", orderNumbers(got))
	}
}
