package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sales-analytics/internal/models"
)

var (
	colorTitle = lipgloss.Color("#cba6f7")
	colorHead  = lipgloss.Color("#89b4fa")
	colorMuted = lipgloss.Color("#7f849c")
	colorUp    = lipgloss.Color("#a6e3a1")
	colorDown  = lipgloss.Color("#f38ba8")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHead).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func render(w io.Writer, ds *models.Dataset, r models.Report) {
	fmt.Fprintln(w, titleStyle.Render("Sales report: "+ds.Name))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d transactions loaded, %d rows skipped", len(ds.Transactions), ds.Skipped)))

	k := r.Metrics.KPIs
	section(w, "Key figures")
	kv(w, "Revenue", money(k.TotalRevenue))
	kv(w, "Commission", money(k.TotalCommission))
	kv(w, "Commission rate", pct(k.CommissionRate))
	kv(w, "Orders", fmt.Sprint(k.OrderCount))
	kv(w, "Average order", money(k.AverageOrderValue))
	kv(w, "Customers", fmt.Sprint(k.DistinctCustomers))
	kv(w, "Representatives", fmt.Sprint(k.DistinctRepresentatives))
	kv(w, "Cities", fmt.Sprint(k.DistinctCities))

	section(w, "Orders by status")
	for _, s := range r.Metrics.Statuses {
		fmt.Fprintf(w, "  %-20s %6d  %14s\n", s.Status, s.Count, money(s.Revenue))
	}

	section(w, "Representatives")
	for _, p := range r.Metrics.Representatives {
		fmt.Fprintf(w, "  %-20s %14s  %6d orders  %4d customers\n", p.Representative, money(p.Revenue), p.Orders, p.Customers)
	}

	section(w, "Top customers")
	for i, c := range r.Metrics.Customers {
		name := c.CustomerName
		if name == "" {
			name = c.CustomerID
		}
		fmt.Fprintf(w, "  %2d. %-24s %14s  %4d orders  last %s\n", i+1, name, money(c.Revenue), c.Orders, c.LastOrder.Format("2006-01-02"))
	}

	section(w, "Products")
	if p := r.Metrics.Products; p == nil {
		fmt.Fprintln(w, mutedStyle.Render("  no order lines supplied"))
	} else {
		kv(w, "Units sold", fmt.Sprint(p.UnitsSold))
		kv(w, "Distinct SKUs", fmt.Sprint(p.DistinctSKUs))
		for i, pr := range p.Products {
			fmt.Fprintf(w, "  %2d. %-16s %-24s %6d units  %14s\n", i+1, pr.SKU, pr.ProductName, pr.Quantity, money(pr.Revenue))
		}
	}

	section(w, "Customer recency as of "+r.Recency.AsOf.Format("2006-01-02"))
	for _, t := range models.Tiers {
		kv(w, string(t), fmt.Sprint(r.Recency.Counts[t]))
	}

	section(w, "Monthly trend")
	for _, pt := range r.Trends.Points {
		fmt.Fprintf(w, "  %s  %14s  %6d orders  %s\n", pt.Month, money(pt.Revenue), pt.Orders, growth(pt.GrowthPct))
	}
	if r.Trends.PeakMonth != "" {
		kv(w, "Peak month", r.Trends.PeakMonth+" ("+money(r.Trends.PeakRevenue)+")")
		kv(w, "Average growth", pct(r.Trends.AvgGrowthPct))
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, sectionStyle.Render(title))
}

func kv(w io.Writer, k, v string) {
	fmt.Fprintf(w, "  %-18s %s\n", k+":", v)
}

func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func pct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *p)
}

func growth(p *float64) string {
	if p == nil {
		return mutedStyle.Render("n/a")
	}
	st := lipgloss.NewStyle().Foreground(colorUp)
	if *p < 0 {
		st = st.Foreground(colorDown)
	}
	return st.Render(fmt.Sprintf("%+.1f%%", *p))
}
