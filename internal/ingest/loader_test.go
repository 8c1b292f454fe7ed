package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/store"
)

const skuCSV = "order_id,sku,product_name,quantity,unit_price,line_total\nO1,SKU-1,Widget,2,30,60\n"

func newTestLoader(st *store.MemoryStore) *Loader {
	return NewLoader(NewHTTPClient(time.Second), st, slog.New(slog.NewTextHandler(io.Discard, nil)), 1, 1<<20)
}

func TestBuildWithoutSKU(t *testing.T) {
	ds, err := Build("q1", strings.NewReader(salesCSV), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.HasLineItems() {
		t.Fatal("no SKU file supplied, line items must be unavailable")
	}
	if len(ds.Transactions) != 3 || ds.Skipped != 1 {
		t.Fatalf("unexpected dataset: %d txns, %d skipped", len(ds.Transactions), ds.Skipped)
	}
}

func TestLoaderFromReadersStores(t *testing.T) {
	st := store.NewMemoryStore()
	ds, err := newTestLoader(st).FromReaders("q1", strings.NewReader(salesCSV), strings.NewReader(skuCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := st.Get(ds.ID)
	if err != nil {
		t.Fatalf("dataset not stored: %v", err)
	}
	if !got.HasLineItems() || len(got.LineItems) != 1 {
		t.Fatalf("unexpected line items: %+v", got.LineItems)
	}
}

func TestLoaderFromURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sales.csv", func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, salesCSV) })
	mux.HandleFunc("/sku.csv", func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, skuCSV) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewMemoryStore()
	ds, err := newTestLoader(st).FromURLs(context.Background(), srv.URL+"/sales.csv", srv.URL+"/sku.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Transactions) != 3 || len(ds.LineItems) != 1 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	if ds.Name != srv.URL+"/sales.csv" {
		t.Fatalf("name = %q", ds.Name)
	}
}

func TestLoaderFromURLsBadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "just,some,columns\n1,2,3\n")
	}))
	defer srv.Close()

	st := store.NewMemoryStore()
	if _, err := newTestLoader(st).FromURLs(context.Background(), srv.URL, ""); err == nil {
		t.Fatal("expected missing column error")
	}
	if len(st.List()) != 0 {
		t.Fatal("failed load must not store anything")
	}
}
