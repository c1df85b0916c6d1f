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
package financials

import (
	"github.com/rs/zerolog"
)

// symbols is the fixed batch, in the order records are emitted
var symbols = []string{"AAPL", "AMZN", "META", "NFLX", "GOOGL"}

// Symbols returns the tickers updated by a run in emission order
func Symbols() []string {
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out
}

// IsKnownSymbol reports whether symbol is part of the fixed batch
func IsKnownSymbol(symbol string) bool {
	for _, known := range symbols {
		if known == symbol {
			return true
		}
	}

	return false
}

// Assumptions are the default valuation inputs shipped with each company.
// Percentages are whole numbers (5 means 5%).
type Assumptions struct {
	Growth         float64 `json:"defaultGrowth"`
	EbitMargin     float64 `json:"defaultEbitMargin"`
	TaxRate        float64 `json:"defaultTaxRate"`
	DaPct          float64 `json:"defaultDaPct"`
	CapexPct       float64 `json:"defaultCapexPct"`
	ChangeNwcPct   float64 `json:"defaultChangeNwcPct"`
	Wacc           float64 `json:"defaultWacc"`
	TerminalGrowth float64 `json:"defaultTerminalGrowth"`
}

func (assumptions Assumptions) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Growth", assumptions.Growth)
	e.Float64("EbitMargin", assumptions.EbitMargin)
	e.Float64("TaxRate", assumptions.TaxRate)
	e.Float64("DaPct", assumptions.DaPct)
	e.Float64("CapexPct", assumptions.CapexPct)
	e.Float64("ChangeNwcPct", assumptions.ChangeNwcPct)
	e.Float64("Wacc", assumptions.Wacc)
	e.Float64("TerminalGrowth", assumptions.TerminalGrowth)
}

var defaultAssumptions = map[string]Assumptions{
	"AAPL": {
		Growth:         5,
		EbitMargin:     30,
		TaxRate:        20,
		DaPct:          3,
		CapexPct:       3,
		ChangeNwcPct:   1,
		Wacc:           8,
		TerminalGrowth: 2,
	},
	"AMZN": {
		Growth:         8,
		EbitMargin:     10,
		TaxRate:        21,
		DaPct:          6,
		CapexPct:       9,
		ChangeNwcPct:   2,
		Wacc:           9,
		TerminalGrowth: 2.5,
	},
	"META": {
		Growth:         7,
		EbitMargin:     40,
		TaxRate:        20,
		DaPct:          6,
		CapexPct:       15,
		ChangeNwcPct:   1,
		Wacc:           9,
		TerminalGrowth: 2.5,
	},
	"NFLX": {
		Growth:         9,
		EbitMargin:     18,
		TaxRate:        20,
		DaPct:          1,
		CapexPct:       2,
		ChangeNwcPct:   1,
		Wacc:           9.5,
		TerminalGrowth: 2.5,
	},
	"GOOGL": {
		Growth:         6,
		EbitMargin:     30,
		TaxRate:        18,
		DaPct:          5,
		CapexPct:       12,
		ChangeNwcPct:   1,
		Wacc:           8.5,
		TerminalGrowth: 2,
	},
}

// LookupAssumptions returns the curated defaults for symbol. The returned
// value is a copy; the table itself never changes.
func LookupAssumptions(symbol string) (Assumptions, bool) {
	assumptions, ok := defaultAssumptions[symbol]
	return assumptions, ok
}

// FallbackAssumptions builds defaults for a symbol that is not in the table
func FallbackAssumptions(ebit, revenue float64) Assumptions {
	margin := 20.0
	if revenue != 0 {
		margin = EbitMargin(ebit, revenue)
	}

	return Assumptions{
		Growth:         5,
		EbitMargin:     margin,
		TaxRate:        20,
		DaPct:          5,
		CapexPct:       5,
		ChangeNwcPct:   1,
		Wacc:           9,
		TerminalGrowth: 2,
	}
}

// AssumptionsFor merges the table (or fallback) with the margin implied by
// the fetched financials. The table margin is only kept when revenue is 0.
func AssumptionsFor(symbol string, ebit, revenue float64) Assumptions {
	assumptions, ok := LookupAssumptions(symbol)
	if !ok {
		assumptions = FallbackAssumptions(ebit, revenue)
	}

	if revenue != 0 {
		assumptions.EbitMargin = EbitMargin(ebit, revenue)
	}

	return assumptions
}

// EbitMargin returns ebit as a percentage of revenue rounded to one decimal
func EbitMargin(ebit, revenue float64) float64 {
	return Round(ebit/revenue*100, 1)
}
