package presentation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// Markdown renders v as a markdown document for terminal output.
func Markdown(v View) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	fmt.Fprintf(&b, "**Status:** %s", v.Status)
	if v.LastUpdated != nil {
		fmt.Fprintf(&b, " · updated %s", v.LastUpdated.Local().Format(time.DateTime))
	}
	b.WriteString("\n\n")
	if v.LastError != "" {
		fmt.Fprintf(&b, "> %s\n\n", v.LastError)
	}
	if v.Fallbacks > 0 {
		fmt.Fprintf(&b, "> %d holding(s) valued at purchase price\n\n", v.Fallbacks)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Total value | Cost | P&L | Return |\n|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n", v.Summary.TotalValue, v.Summary.TotalCost, v.Summary.TotalPnL, v.Summary.TotalReturn)

	b.WriteString("## Allocation\n\n")
	for _, a := range v.Allocation {
		fmt.Fprintf(&b, "- **%s:** %s (%s)\n", a.Label, a.Value, a.Percent)
	}
	if v.Unclassified != "" {
		fmt.Fprintf(&b, "- **Other:** %s\n", v.Unclassified)
	}
	b.WriteString("\n")

	b.WriteString("## Holdings\n\n")
	if len(v.Rows) == 0 {
		b.WriteString("_No holdings._\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Qty | Buy | Price | Value | P&L |\n|---|---|---:|---:|---:|---:|---:|\n")
	for _, r := range v.Rows {
		price := r.CurrentPrice
		if r.PriceSource == model.PriceSourceFallback {
			price += "*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s (%s) |\n",
			r.Symbol, escapeCell(r.Name), r.Quantity, r.PurchasePrice, price, r.MarketValue, r.PnL, r.PnLPercent)
	}
	return b.String()
}

// NewsMarkdown renders headlines as a markdown list.
func NewsMarkdown(articles []model.NewsArticle) string {
	var b strings.Builder
	b.WriteString("# Market news\n\n")
	if len(articles) == 0 {
		b.WriteString("_No news available._\n")
		return b.String()
	}
	for _, a := range articles {
		if a.URL != "" {
			fmt.Fprintf(&b, "- [%s](%s)", a.Headline, a.URL)
		} else {
			fmt.Fprintf(&b, "- %s", a.Headline)
		}
		fmt.Fprintf(&b, " · %s", a.Source)
		if a.Age != "" {
			fmt.Fprintf(&b, " · %s", a.Age)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
