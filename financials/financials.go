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
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidFiscalDate = errors.New("invalid fiscal date")
)

// CompanyFinancials is one record of the generated data module. Currency
// values are in millions of USD.
type CompanyFinancials struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	BaseYear int    `json:"baseYear"`

	Revenue   float64 `json:"revenue"`
	Ebit      float64 `json:"ebit"`
	DA        float64 `json:"da"`
	Capex     float64 `json:"capex"`
	ChangeNwc float64 `json:"changeNwc"`

	Cash              float64 `json:"cash"`
	Debt              float64 `json:"debt"`
	SharesOutstanding float64 `json:"sharesOutstanding"`

	Assumptions
}

func (company *CompanyFinancials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ID", company.ID)
	e.Str("Name", company.Name)
	e.Int("BaseYear", company.BaseYear)
	e.Float64("Revenue", company.Revenue)
	e.Float64("Ebit", company.Ebit)
	e.Float64("DA", company.DA)
	e.Float64("Capex", company.Capex)
	e.Float64("ChangeNwc", company.ChangeNwc)
	e.Float64("Cash", company.Cash)
	e.Float64("Debt", company.Debt)
	e.Float64("SharesOutstanding", company.SharesOutstanding)
	e.Object("Assumptions", company.Assumptions)
}

// Normalize extracts the most recent annual report of each statement and
// converts it into a CompanyFinancials record
func Normalize(ctx context.Context, set *alphavantage.StatementSet) (*CompanyFinancials, error) {
	logger := zerolog.Ctx(ctx)

	if err := set.Validate(); err != nil {
		return nil, err
	}

	// index 0 is the most recent year in Alpha Vantage's ordering
	checkOrdering(logger, set.Symbol, alphavantage.IncomeStatement, set.Income.AnnualReports)
	checkOrdering(logger, set.Symbol, alphavantage.BalanceSheet, set.Balance.AnnualReports)
	checkOrdering(logger, set.Symbol, alphavantage.CashFlow, set.CashFlow.AnnualReports)

	income := set.Income.AnnualReports[0]
	balance := set.Balance.AnnualReports[0]
	cashFlow := set.CashFlow.AnnualReports[0]

	baseYear, err := BaseYear(income.FiscalDateEnding())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", set.Symbol, err)
	}

	totalRevenue := SafeFloat(income["totalRevenue"])
	operatingIncome := SafeFloat(income["operatingIncome"])

	if totalRevenue == 0 && operatingIncome == 0 {
		logger.Warn().Str("Symbol", set.Symbol).Msg("revenue and operating income are both zero")
	}

	shares := SafeFloat(set.Overview["SharesOutstanding"])
	sharesMillions := 0.0
	if shares != 0 {
		sharesMillions = ToMillions(shares)
	}

	name, _ := set.Overview["Name"].(string)
	if name == "" {
		name = set.Symbol
	}

	company := &CompanyFinancials{
		ID:       set.Symbol,
		Name:     name,
		Ticker:   set.Symbol,
		BaseYear: baseYear,

		Revenue:   ToMillions(totalRevenue),
		Ebit:      ToMillions(operatingIncome),
		DA:        ToMillions(SafeFloat(cashFlow["depreciationAndAmortization"])),
		Capex:     ToMillions(SafeFloat(cashFlow["capitalExpenditures"])),
		ChangeNwc: ToMillions(SafeFloat(cashFlow["changeInWorkingCapital"])),

		Cash:              ToMillions(SafeFloat(balance["cashAndCashEquivalentsAtCarryingValue"])),
		Debt:              ToMillions(SafeFloat(balance["totalDebt"])),
		SharesOutstanding: sharesMillions,
	}

	company.Assumptions = AssumptionsFor(set.Symbol, company.Ebit, company.Revenue)

	logger.Debug().Object("Company", company).Msg("normalized financials")

	return company, nil
}

// BaseYear parses the year from a fiscal date such as 2023-12-31. An empty
// date yields 0.
func BaseYear(fiscalDate string) (int, error) {
	if fiscalDate == "" {
		return 0, nil
	}

	yearStr := fiscalDate
	if len(yearStr) > 4 {
		yearStr = yearStr[:4]
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFiscalDate, fiscalDate)
	}

	return year, nil
}

// checkOrdering warns when a report later in the list is newer than the first
// one. The first report is still used.
func checkOrdering(logger *zerolog.Logger, symbol string, function alphavantage.Function, reports []alphavantage.Report) {
	first := reports[0].FiscalDateEnding()
	for _, report := range reports[1:] {
		if fiscalDate := report.FiscalDateEnding(); fiscalDate > first {
			logger.Warn().Str("Symbol", symbol).Str("Function", string(function)).
				Str("FirstFiscalDate", first).Str("NewerFiscalDate", fiscalDate).
				Msg("annual reports are not ordered most recent first")
			return
		}
	}
}
