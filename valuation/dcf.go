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
	"math"

	"github.com/penny-vault/faangdata/financials"
)

const DefaultForecastYears = 5

// Assumptions drive a DCF run. Percentages are whole numbers (8 means 8%).
type Assumptions struct {
	RevenueGrowthPct  float64
	EbitMarginPct     float64
	TaxRatePct        float64
	DaPct             float64 // % of revenue
	CapexPct          float64 // % of revenue
	ChangeNwcPct      float64 // % of revenue
	WaccPct           float64
	TerminalGrowthPct float64
	ForecastYears     int
}

// FromDefaults seeds assumptions with the defaults shipped on a record
func FromDefaults(company *financials.CompanyFinancials) Assumptions {
	return Assumptions{
		RevenueGrowthPct:  company.Growth,
		EbitMarginPct:     company.EbitMargin,
		TaxRatePct:        company.TaxRate,
		DaPct:             company.DaPct,
		CapexPct:          company.CapexPct,
		ChangeNwcPct:      company.ChangeNwcPct,
		WaccPct:           company.Wacc,
		TerminalGrowthPct: company.TerminalGrowth,
		ForecastYears:     DefaultForecastYears,
	}
}

type YearProjection struct {
	YearIndex      int     `csv:"year"`
	Revenue        float64 `csv:"revenue"`
	Ebit           float64 `csv:"ebit"`
	Ebiat          float64 `csv:"ebiat"`
	DA             float64 `csv:"da"`
	Capex          float64 `csv:"capex"`
	ChangeNwc      float64 `csv:"change_nwc"`
	Fcf            float64 `csv:"fcf"`
	DiscountFactor float64 `csv:"discount_factor"`
	DiscountedFcf  float64 `csv:"discounted_fcf"`
}

// Result of a DCF run; currency amounts are in millions, the share price in
// dollars per share
type Result struct {
	Projections             []YearProjection
	TerminalValue           float64
	DiscountedTerminalValue float64
	EnterpriseValue         float64
	NetDebt                 float64
	EquityValue             float64
	ImpliedSharePrice       float64
}

// Run projects unlevered free cash flow from the base year revenue and
// discounts it back at WACC with a Gordon growth terminal value
func Run(company *financials.CompanyFinancials, assumptions Assumptions) Result {
	growth := assumptions.RevenueGrowthPct / 100
	ebitMargin := assumptions.EbitMarginPct / 100
	taxRate := assumptions.TaxRatePct / 100
	daPct := assumptions.DaPct / 100
	capexPct := assumptions.CapexPct / 100
	changeNwcPct := assumptions.ChangeNwcPct / 100
	wacc := assumptions.WaccPct / 100
	terminalGrowth := assumptions.TerminalGrowthPct / 100

	// the terminal value formula needs wacc > g
	if wacc <= terminalGrowth {
		wacc = terminalGrowth + 0.005
	}

	result := Result{
		Projections: make([]YearProjection, 0, max(assumptions.ForecastYears, 0)),
	}

	revenue := company.Revenue
	sumDiscountedFcf := 0.0

	for year := 1; year <= assumptions.ForecastYears; year++ {
		revenue *= 1 + growth
		ebit := revenue * ebitMargin
		ebiat := ebit * (1 - taxRate)
		da := revenue * daPct
		capex := revenue * capexPct
		changeNwc := revenue * changeNwcPct
		fcf := ebiat + da - capex - changeNwc
		discountFactor := 1 / math.Pow(1+wacc, float64(year))

		projection := YearProjection{
			YearIndex:      year,
			Revenue:        revenue,
			Ebit:           ebit,
			Ebiat:          ebiat,
			DA:             da,
			Capex:          capex,
			ChangeNwc:      changeNwc,
			Fcf:            fcf,
			DiscountFactor: discountFactor,
			DiscountedFcf:  fcf * discountFactor,
		}

		sumDiscountedFcf += projection.DiscountedFcf
		result.Projections = append(result.Projections, projection)
	}

	lastFcf := 0.0
	if len(result.Projections) > 0 {
		lastFcf = result.Projections[len(result.Projections)-1].Fcf
	}

	result.TerminalValue = lastFcf * (1 + terminalGrowth) / (wacc - terminalGrowth)
	result.DiscountedTerminalValue = result.TerminalValue / math.Pow(1+wacc, float64(assumptions.ForecastYears))
	result.EnterpriseValue = sumDiscountedFcf + result.DiscountedTerminalValue
	result.NetDebt = company.Debt - company.Cash
	result.EquityValue = result.EnterpriseValue - result.NetDebt

	if company.SharesOutstanding != 0 {
		result.ImpliedSharePrice = result.EquityValue / company.SharesOutstanding
	}

	return result
}

type SensitivityCell struct {
	WaccPct           float64
	TerminalGrowthPct float64
	SharePrice        float64
}

// Sensitivity returns a 3x3 grid of implied share prices. Rows vary WACC by
// waccStep and columns vary terminal growth by growthStep around the base.
func Sensitivity(company *financials.CompanyFinancials, base Assumptions, waccStep, growthStep float64) [][]SensitivityCell {
	waccValues := []float64{base.WaccPct - waccStep, base.WaccPct, base.WaccPct + waccStep}
	growthValues := []float64{base.TerminalGrowthPct - growthStep, base.TerminalGrowthPct, base.TerminalGrowthPct + growthStep}

	rows := make([][]SensitivityCell, 0, len(waccValues))
	for _, wacc := range waccValues {
		row := make([]SensitivityCell, 0, len(growthValues))
		for _, growth := range growthValues {
			assumptions := base
			assumptions.WaccPct = wacc
			assumptions.TerminalGrowthPct = growth

			row = append(row, SensitivityCell{
				WaccPct:           wacc,
				TerminalGrowthPct: growth,
				SharePrice:        Run(company, assumptions).ImpliedSharePrice,
			})
		}
		rows = append(rows, row)
	}

	return rows
}
