package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/sales-analytics/internal/ingest"
	"github.com/AngelCh415/sales-analytics/internal/metrics"
	"github.com/AngelCh415/sales-analytics/internal/models"
	"github.com/AngelCh415/sales-analytics/internal/store"
	"github.com/AngelCh415/sales-analytics/internal/utils"
)

type api struct {
	log       *slog.Logger
	st        *store.MemoryStore
	loader    *ingest.Loader
	svc       *metrics.Service
	maxUpload int64
}

func NewRouter(log *slog.Logger, st *store.MemoryStore, loader *ingest.Loader, svc *metrics.Service, maxUpload int64) http.Handler {
	a := &api{log: log, st: st, loader: loader, svc: svc, maxUpload: maxUpload}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Instrument)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/datasets", func(r chi.Router) {
		r.Get("/", a.list)
		r.Post("/", a.upload)
		r.Post("/import", a.importURLs)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", a.remove)
			r.Get("/report", query(a, a.svc.Report))
			r.Get("/kpis", query(a, a.svc.KPIs))
			r.Get("/statuses", query(a, a.svc.Statuses))
			r.Get("/reps", query(a, a.svc.Representatives))
			r.Get("/customers", query(a, a.svc.Customers))
			r.Get("/recency", query(a, a.svc.Recency))
			r.Get("/trends", query(a, a.svc.Trends))
			r.Get("/products", a.products)
		})
	})

	return mux
}

type datasetInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LoadedAt     time.Time `json:"loaded_at"`
	Transactions int       `json:"transactions"`
	LineItems    *int      `json:"line_items"`
	Skipped      int       `json:"skipped"`
}

func info(ds *models.Dataset) datasetInfo {
	out := datasetInfo{
		ID:           ds.ID,
		Name:         ds.Name,
		LoadedAt:     ds.LoadedAt,
		Transactions: len(ds.Transactions),
		Skipped:      ds.Skipped,
	}
	if ds.HasLineItems() {
		n := len(ds.LineItems)
		out.LineItems = &n
	}
	return out
}

func (a *api) list(w http.ResponseWriter, r *http.Request) {
	all := a.st.List()
	out := make([]datasetInfo, 0, len(all))
	for _, ds := range all {
		out = append(out, info(ds))
	}
	writeJSON(w, out)
}

// upload takes a multipart form with a required "sales" file and an
// optional "sku" file.
func (a *api) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		a.fail(w, r, fmt.Errorf("bad multipart form: %w", err), 400)
		return
	}
	sales, hdr, err := r.FormFile("sales")
	if err != nil {
		http.Error(w, "sales file required", 400)
		return
	}
	defer sales.Close()

	var sku io.Reader
	if f, _, err := r.FormFile("sku"); err == nil {
		defer f.Close()
		sku = f
	} else if !errors.Is(err, http.ErrMissingFile) {
		http.Error(w, err.Error(), 400)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = hdr.Filename
	}
	ds, err := a.loader.FromReaders(name, sales, sku)
	if err != nil {
		a.fail(w, r, err, 400)
		return
	}
	w.Header().Set("Location", "/datasets/"+ds.ID)
	writeJSONStatus(w, 201, info(ds))
}

func (a *api) importURLs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	salesURL := q.Get("sales_url")
	if salesURL == "" {
		http.Error(w, "sales_url required", 400)
		return
	}
	ds, err := a.loader.FromURLs(r.Context(), salesURL, q.Get("sku_url"))
	if err != nil {
		a.fail(w, r, err, 502)
		return
	}
	w.Header().Set("Location", "/datasets/"+ds.ID)
	writeJSONStatus(w, 201, info(ds))
}

func (a *api) remove(w http.ResponseWriter, r *http.Request) {
	if err := a.st.Delete(chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, 500)
		return
	}
	w.WriteHeader(204)
}

type productsResponse struct {
	Available bool                  `json:"available"`
	Report    *models.ProductReport `json:"report,omitempty"`
}

func (a *api) products(w http.ResponseWriter, r *http.Request) {
	rep, err := a.svc.Products(chi.URLParam(r, "id"), r.URL.Query())
	if err != nil {
		a.fail(w, r, err, 500)
		return
	}
	writeJSON(w, productsResponse{Available: rep != nil, Report: rep})
}

// query adapts a service method keyed by dataset id and query string.
func query[T any](a *api, fn func(id string, v url.Values) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(chi.URLParam(r, "id"), r.URL.Query())
		if err != nil {
			a.fail(w, r, err, 500)
			return
		}
		writeJSON(w, out)
	}
}

// fail maps known errors to a status; anything else gets fallback.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	code := statusFor(err, fallback)
	if code >= 500 {
		a.log.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("rid", utils.RID(r.Context())),
			slog.String("err", err.Error()))
	}
	http.Error(w, err.Error(), code)
}

func statusFor(err error, fallback int) int {
	var se *ingest.StatusError
	var mbe *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return 404
	case errors.Is(err, metrics.ErrBadCriteria),
		errors.Is(err, ingest.ErrMissingColumn),
		errors.Is(err, ingest.ErrEmptyFile):
		return 400
	case errors.As(err, &mbe), errors.Is(err, multipart.ErrMessageTooLarge):
		return 413
	case errors.As(err, &se), errors.Is(err, ingest.ErrTooLarge):
		return 502
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, v any) { writeJSONStatus(w, 200, v) }

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
