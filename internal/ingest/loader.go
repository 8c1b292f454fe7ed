package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/models"
	"github.com/AngelCh415/sales-analytics/internal/store"
	"github.com/AngelCh415/sales-analytics/internal/utils"
)

// Build parses a sales file and, when sku is non-nil, an order-lines file
// into a Dataset that is not yet stored.
func Build(name string, sales, sku io.Reader) (*models.Dataset, error) {
	txns, skipped, err := ParseSales(sales)
	if err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}
	ds := &models.Dataset{Name: name, Transactions: txns, Skipped: skipped}
	countRecords("transactions", len(txns), skipped)

	if sku != nil {
		items, skippedLines, err := ParseLineItems(sku)
		if err != nil {
			return nil, fmt.Errorf("sku: %w", err)
		}
		ds.LineItems = items
		ds.Skipped += skippedLines
		countRecords("line_items", len(items), skippedLines)
	}
	return ds, nil
}

func countRecords(kind string, accepted, skipped int) {
	utils.RecordsIngested.WithLabelValues(kind).Add(float64(accepted))
	utils.RecordsSkipped.WithLabelValues(kind).Add(float64(skipped))
}

// Loader turns uploads, remote files and database tables into stored
// datasets.
type Loader struct {
	c     HTTPClient
	st    *store.MemoryStore
	log   *slog.Logger
	retry utils.Backoff
	limit int64
}

func NewLoader(c HTTPClient, st *store.MemoryStore, log *slog.Logger, retries int, maxBytes int64) *Loader {
	return &Loader{
		c:     c,
		st:    st,
		log:   log,
		retry: utils.NewBackoff(200*time.Millisecond, retries),
		limit: maxBytes,
	}
}

// FromReaders parses and stores a dataset. sku may be nil.
func (l *Loader) FromReaders(name string, sales, sku io.Reader) (*models.Dataset, error) {
	ds, err := Build(name, sales, sku)
	if err != nil {
		return nil, err
	}
	l.put(ds)
	return ds, nil
}

// FromURLs downloads the sales file and, when skuURL is set, the
// order-lines file, then stores the dataset.
func (l *Loader) FromURLs(ctx context.Context, salesURL, skuURL string) (*models.Dataset, error) {
	sales, err := FetchWithRetry(ctx, l.c, salesURL, l.retry, l.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	var sku io.Reader
	if skuURL != "" {
		b, err := FetchWithRetry(ctx, l.c, skuURL, l.retry, l.limit)
		if err != nil {
			return nil, fmt.Errorf("fetch sku: %w", err)
		}
		sku = bytes.NewReader(b)
	}
	return l.FromReaders(salesURL, bytes.NewReader(sales), sku)
}

func (l *Loader) put(ds *models.Dataset) {
	id := l.st.Put(ds)
	attrs := []any{
		slog.String("dataset", id),
		slog.String("name", ds.Name),
		slog.Int("transactions", len(ds.Transactions)),
		slog.Int("skipped", ds.Skipped),
	}
	if ds.HasLineItems() {
		attrs = append(attrs, slog.Int("line_items", len(ds.LineItems)))
	}
	l.log.Info("dataset loaded", attrs...)
}
