package metrics

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/models"
	"github.com/AngelCh415/sales-analytics/internal/store"
	"github.com/AngelCh415/sales-analytics/internal/utils"
)

var ErrBadCriteria = errors.New("bad criteria")

const (
	dateLayout = "2006-01-02"
	maxLimit   = 1000
)

// Service answers analytics queries against stored datasets. Each call
// re-filters from the raw records; nothing derived is cached.
type Service struct {
	st       *store.MemoryStore
	defaults Options
}

func NewService(st *store.MemoryStore, defaults Options) *Service {
	return &Service{st: st, defaults: defaults}
}

type view struct {
	ds       *models.Dataset
	criteria models.Criteria
	opts     Options
	filtered []models.Transaction
}

func (s *Service) view(id string, v url.Values) (view, error) {
	ds, err := s.st.Get(id)
	if err != nil {
		return view{}, err
	}
	c, err := ParseCriteria(v)
	if err != nil {
		return view{}, err
	}
	opts, err := ParseOptions(v, s.defaults)
	if err != nil {
		return view{}, err
	}
	return view{ds: ds, criteria: c, opts: opts, filtered: Filter(ds.Transactions, c)}, nil
}

func (s *Service) Report(id string, v url.Values) (models.Report, error) {
	defer utils.ObserveSince("report", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return models.Report{}, err
	}
	return analyze(vw.ds, vw.criteria, vw.filtered, vw.opts), nil
}

func (s *Service) KPIs(id string, v url.Values) (models.KPIs, error) {
	defer utils.ObserveSince("kpis", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return models.KPIs{}, err
	}
	return Summarize(vw.filtered), nil
}

func (s *Service) Statuses(id string, v url.Values) ([]models.StatusCount, error) {
	defer utils.ObserveSince("statuses", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return nil, err
	}
	return ByStatus(vw.filtered), nil
}

func (s *Service) Representatives(id string, v url.Values) ([]models.RepPerformance, error) {
	defer utils.ObserveSince("representatives", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return nil, err
	}
	return head(ByRepresentative(vw.filtered), vw.opts.TopReps), nil
}

func (s *Service) Customers(id string, v url.Values) ([]models.CustomerPerformance, error) {
	defer utils.ObserveSince("customers", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return nil, err
	}
	return head(ByCustomer(vw.filtered), vw.opts.TopCustomers), nil
}

// Products returns nil without error when the dataset has no SKU data.
func (s *Service) Products(id string, v url.Values) (*models.ProductReport, error) {
	defer utils.ObserveSince("products", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return nil, err
	}
	if !vw.ds.HasLineItems() {
		return nil, nil
	}
	rep := Products(vw.ds.LineItems, vw.filtered, vw.opts.TopProducts)
	return &rep, nil
}

func (s *Service) Recency(id string, v url.Values) (models.RecencyReport, error) {
	defer utils.ObserveSince("recency", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return models.RecencyReport{}, err
	}
	asOf := vw.opts.AsOf
	if asOf.IsZero() {
		asOf = DefaultAsOf(vw.ds.Transactions)
	}
	return Recency(vw.filtered, asOf), nil
}

func (s *Service) Trends(id string, v url.Values) (models.TrendReport, error) {
	defer utils.ObserveSince("trends", time.Now())
	vw, err := s.view(id, v)
	if err != nil {
		return models.TrendReport{}, err
	}
	return SummarizeTrends(Trends(vw.filtered)), nil
}

// ParseCriteria reads from/to (YYYY-MM-DD) and the comma-separated rep,
// status and city sets. Missing parameters mean no restriction.
func ParseCriteria(v url.Values) (models.Criteria, error) {
	from, err := parseDate(v.Get("from"))
	if err != nil {
		return models.Criteria{}, fmt.Errorf("%w: from: %v", ErrBadCriteria, err)
	}
	to, err := parseDate(v.Get("to"))
	if err != nil {
		return models.Criteria{}, fmt.Errorf("%w: to: %v", ErrBadCriteria, err)
	}
	return models.Criteria{
		Start:           from,
		End:             to,
		Representatives: csvList(v["rep"]),
		Statuses:        csvList(v["status"]),
		Cities:          csvList(v["city"]),
	}, nil
}

// ParseOptions overlays top, top_products, top_reps, recent and as_of on
// defaults. Non-numeric limits keep the default; every limit ends up in
// 1..maxLimit.
func ParseOptions(v url.Values, defaults Options) (Options, error) {
	o := defaults
	o.TopCustomers = clampLimit(atoiDef(v.Get("top"), o.TopCustomers))
	o.TopProducts = clampLimit(atoiDef(v.Get("top_products"), o.TopProducts))
	o.TopReps = clampLimit(atoiDef(v.Get("top_reps"), o.TopReps))
	o.RecentOrders = clampLimit(atoiDef(v.Get("recent"), o.RecentOrders))
	asOf, err := parseDate(v.Get("as_of"))
	if err != nil {
		return Options{}, fmt.Errorf("%w: as_of: %v", ErrBadCriteria, err)
	}
	if !asOf.IsZero() {
		o.AsOf = asOf
	}
	return o, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// csvList splits every value on commas and drops blanks and repeats.
func csvList(vals []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return d
	}
	return v
}

func clampLimit(n int) int {
	if n <= 0 || n > maxLimit {
		return maxLimit
	}
	return n
}
