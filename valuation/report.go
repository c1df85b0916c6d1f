// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package valuation

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/penny-vault/faangdata/financials"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Markdown describes a DCF run as a markdown document suitable for glamour
func Markdown(company *financials.CompanyFinancials, assumptions Assumptions, result Result, sensitivity [][]SensitivityCell) string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# %s (%s)\n\n", company.Name, company.Ticker))
	// years are printed without digit grouping
	builder.WriteString(fmt.Sprintf("Base year %d ", company.BaseYear))
	builder.WriteString(p.Sprintf("revenue: $%.1fM, EBIT: $%.1fM\n\n", company.Revenue, company.Ebit))

	builder.WriteString("## Assumptions\n\n")
	builder.WriteString("| Growth | EBIT Margin | Tax | D&A | Capex | ΔNWC | WACC | Terminal Growth |\n")
	builder.WriteString("|---|---|---|---|---|---|---|---|\n")
	builder.WriteString(fmt.Sprintf("| %v%% | %v%% | %v%% | %v%% | %v%% | %v%% | %v%% | %v%% |\n\n",
		assumptions.RevenueGrowthPct, assumptions.EbitMarginPct, assumptions.TaxRatePct, assumptions.DaPct,
		assumptions.CapexPct, assumptions.ChangeNwcPct, assumptions.WaccPct, assumptions.TerminalGrowthPct))

	builder.WriteString("## Projections ($M)\n\n")
	builder.WriteString("| Year | Revenue | EBIT | EBIAT | D&A | Capex | ΔNWC | FCF | Discounted FCF |\n")
	builder.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, projection := range result.Projections {
		builder.WriteString(fmt.Sprintf("| %d ", company.BaseYear+projection.YearIndex))
		builder.WriteString(p.Sprintf("| %.1f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			projection.Revenue, projection.Ebit, projection.Ebiat,
			projection.DA, projection.Capex, projection.ChangeNwc, projection.Fcf, projection.DiscountedFcf))
	}

	builder.WriteString("\n## Valuation\n\n")
	builder.WriteString(p.Sprintf("  * Terminal Value: $%.1fM (discounted $%.1fM)\n", result.TerminalValue, result.DiscountedTerminalValue))
	builder.WriteString(p.Sprintf("  * Enterprise Value: $%.1fM\n", result.EnterpriseValue))
	builder.WriteString(p.Sprintf("  * Net Debt: $%.1fM\n", result.NetDebt))
	builder.WriteString(p.Sprintf("  * Equity Value: $%.1fM\n", result.EquityValue))

	if company.SharesOutstanding == 0 {
		builder.WriteString("  * Implied Share Price: n/a (shares outstanding unknown)\n")
	} else {
		builder.WriteString(p.Sprintf("  * Implied Share Price: $%.2f\n", result.ImpliedSharePrice))
	}

	if len(sensitivity) == 0 {
		return builder.String()
	}

	builder.WriteString("\n## Sensitivity (share price)\n\n")
	builder.WriteString("| WACC \\ g |")
	for _, cell := range sensitivity[0] {
		builder.WriteString(fmt.Sprintf(" %v%% |", cell.TerminalGrowthPct))
	}
	builder.WriteString("\n|---|")
	builder.WriteString(strings.Repeat("---|", len(sensitivity[0])))
	builder.WriteString("\n")

	for _, row := range sensitivity {
		if len(row) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("| %v%% |", row[0].WaccPct))
		for _, cell := range row {
			builder.WriteString(p.Sprintf(" $%.2f |", cell.SharePrice))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

type projectionRow struct {
	Ticker string `csv:"ticker"`
	YearProjection
}

// CSV renders the yearly projections of several runs as a single csv
// document keyed by ticker
func CSV(results map[string]Result, order []string) (string, error) {
	rows := make([]*projectionRow, 0, len(order)*DefaultForecastYears)
	for _, ticker := range order {
		result, ok := results[ticker]
		if !ok {
			continue
		}

		for _, projection := range result.Projections {
			rows = append(rows, &projectionRow{
				Ticker:         ticker,
				YearProjection: projection,
			})
		}
	}

	return gocsv.MarshalString(&rows)
}

// AssumptionsTable lists the default assumptions for every symbol in the
// batch followed by the fallback used for anything else
func AssumptionsTable() string {
	builder := strings.Builder{}

	builder.WriteString("# Default Assumptions\n\n")
	builder.WriteString("Percentages. The EBIT margin is replaced by the margin of the latest fiscal year whenever revenue is reported.\n\n")
	builder.WriteString("| Symbol | Growth | EBIT Margin | Tax | D&A | Capex | ΔNWC | WACC | Terminal Growth |\n")
	builder.WriteString("|---|---|---|---|---|---|---|---|---|\n")

	row := func(label string, assumptions financials.Assumptions) {
		builder.WriteString(fmt.Sprintf("| %s | %v | %v | %v | %v | %v | %v | %v | %v |\n", label,
			assumptions.Growth, assumptions.EbitMargin, assumptions.TaxRate, assumptions.DaPct,
			assumptions.CapexPct, assumptions.ChangeNwcPct, assumptions.Wacc, assumptions.TerminalGrowth))
	}

	for _, symbol := range financials.Symbols() {
		if assumptions, ok := financials.LookupAssumptions(symbol); ok {
			row(symbol, assumptions)
		}
	}

	row("*other*", financials.FallbackAssumptions(0, 0))

	return builder.String()
}
