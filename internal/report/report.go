// Package report renders an evaluation as a Markdown document, and as HTML
// through goldmark.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"rentab/internal/projection"
	"rentab/internal/rentability"
	"rentab/internal/sweep"
	"rentab/pkg/utils"
)

// DefaultTitle heads a report when none is given.
const DefaultTitle = "Rental investment evaluation"

// Report gathers everything one document shows.
type Report struct {
	Title      string
	Result     rentability.Result
	Projection projection.Projection
	Sweep      []sweep.Cell
}

// New builds a report for a result, deriving its projection.
func New(result rentability.Result) *Report {
	return &Report{
		Title:      DefaultTitle,
		Result:     result,
		Projection: projection.FromResult(result),
	}
}

// WithSweep attaches a sensitivity grid to the report.
func (r *Report) WithSweep(cells []sweep.Cell) *Report {
	r.Sweep = cells
	return r
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	res := r.Result

	title := r.Title
	if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Performance indicators\n\n")
	b.WriteString("| Indicator | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Gross yield | %s |\n", utils.FormatPercent(res.GrossYield))
	fmt.Fprintf(&b, "| Net yield | %s |\n", utils.FormatPercent(res.NetYield))
	fmt.Fprintf(&b, "| Monthly cash flow | %s |\n", utils.FormatEuro(res.MonthlyCashFlow))
	fmt.Fprintf(&b, "| IRR | %s |\n\n", utils.FormatPercent(res.IRR))

	b.WriteString("## Loan\n\n")
	b.WriteString("| Item | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Loan amount | %s |\n", utils.FormatEuro(res.LoanAmount))
	fmt.Fprintf(&b, "| Down payment | %s |\n", utils.FormatEuro(res.DownPayment))
	fmt.Fprintf(&b, "| Duration | %d years |\n", res.Duration)
	fmt.Fprintf(&b, "| Annual rate | %s |\n", utils.FormatPercent(res.AnnualRate))
	fmt.Fprintf(&b, "| Monthly payment | %s |\n", utils.FormatEuro(res.MonthlyPayment))
	fmt.Fprintf(&b, "| Total repaid | %s |\n", utils.FormatEuro(res.TotalLoanCost))
	fmt.Fprintf(&b, "| Total interest | %s |\n", utils.FormatEuro(res.TotalInterest))
	fmt.Fprintf(&b, "| Maximum affordable loan | %s |\n\n", utils.FormatEuro(res.MaxAffordableLoan))

	if res.Affordable {
		b.WriteString("The loan fits within the borrower's debt-to-income limit.\n\n")
	} else {
		b.WriteString("**Warning:** the loan exceeds the borrower's debt-to-income limit.\n\n")
	}

	b.WriteString("## Property\n\n")
	b.WriteString("| Item | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Purchase price | %s |\n", utils.FormatEuro(res.PurchasePrice))
	fmt.Fprintf(&b, "| Works | %s |\n", utils.FormatEuro(res.WorksCost))
	fmt.Fprintf(&b, "| Total acquisition cost | %s |\n", utils.FormatEuro(res.TotalAcquisitionCost))
	fmt.Fprintf(&b, "| Holding period | %d years |\n", res.HoldingYears)
	fmt.Fprintf(&b, "| Resale value | %s |\n\n", utils.FormatEuro(res.ResaleValue))

	m := r.Projection.Monthly
	b.WriteString("## Rent vs monthly outflows\n\n")
	b.WriteString("| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Rent | %s |\n", utils.FormatEuro(m.Rent))
	fmt.Fprintf(&b, "| Loan payment | %s |\n", utils.FormatEuro(m.LoanPayment))
	fmt.Fprintf(&b, "| Property tax and condo fees | %s |\n", utils.FormatEuro(m.FixedCharges))
	fmt.Fprintf(&b, "| Management | %s |\n", utils.FormatEuro(m.ManagementFee))
	fmt.Fprintf(&b, "| **Total outflows** | **%s** |\n", utils.FormatEuro(m.TotalOutflows))
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n\n", utils.FormatSignedEuro(m.MonthlyBalance))

	b.WriteString("## Capital repaid vs personal savings\n\n")
	b.WriteString("| Year | Capital repaid | Loan cost | Savings effort |\n|---:|---:|---:|---:|\n")
	for _, p := range r.Projection.Years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			p.Year,
			utils.FormatEuro(p.CapitalRepaid),
			utils.FormatEuro(p.LoanCost),
			utils.FormatEuro(p.SavingsEffort))
	}

	if len(r.Sweep) > 0 {
		b.WriteString("\n## Rate sensitivity\n\n")
		b.WriteString("| Rate / duration | Payment | Cash flow | Net yield | IRR | Affordable |\n|---|---:|---:|---:|---:|:---:|\n")
		for _, c := range r.Sweep {
			label := utils.FormatRate(c.Rate, c.Duration)
			if c.Err != nil {
				fmt.Fprintf(&b, "| %s | %s | | | | |\n", label, escapeCell(c.Err.Error()))
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				label,
				utils.FormatEuro(c.Result.MonthlyPayment),
				utils.FormatEuro(c.Result.MonthlyCashFlow),
				utils.FormatPercent(c.Result.NetYield),
				utils.FormatPercent(c.Result.IRR),
				yesNo(c.Result.Affordable))
		}
	}

	return b.String()
}

// HTML renders the Markdown report to a standalone HTML page.
func (r *Report) HTML() ([]byte, error) {
	body, err := RenderHTML(r.Markdown())
	if err != nil {
		return nil, err
	}

	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}table{border-collapse:collapse;margin-bottom:1em}td,th{border:1px solid #ccc;padding:.3em .6em}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderHTML converts Markdown to an HTML fragment.
func RenderHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
