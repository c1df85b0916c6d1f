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
package alphavantage

import (
	"fmt"
)

// Function is the value of the `function` query parameter on the Alpha
// Vantage query endpoint
type Function string

const (
	IncomeStatement Function = "INCOME_STATEMENT"
	BalanceSheet    Function = "BALANCE_SHEET"
	CashFlow        Function = "CASH_FLOW"
	CompanyOverview Function = "OVERVIEW"
)

// Report is a single fiscal period of a financial statement. Values are kept
// exactly as the provider returned them (usually strings, sometimes "None").
type Report map[string]any

// FiscalDateEnding returns the end date of the reported fiscal period or an
// empty string if the provider did not include one
func (report Report) FiscalDateEnding() string {
	if dateStr, ok := report["fiscalDateEnding"].(string); ok {
		return dateStr
	}

	return ""
}

// Statement is the envelope returned by the INCOME_STATEMENT, BALANCE_SHEET,
// and CASH_FLOW functions
type Statement struct {
	Symbol           string   `json:"symbol"`
	AnnualReports    []Report `json:"annualReports"`
	QuarterlyReports []Report `json:"quarterlyReports"`

	// Alpha Vantage reports throttling and bad requests with a 200 status
	// and one of these keys instead of the report lists
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// Diagnostic returns the message the provider sent in place of data, if any
func (statement *Statement) Diagnostic() string {
	switch {
	case statement.ErrorMessage != "":
		return statement.ErrorMessage
	case statement.Note != "":
		return statement.Note
	default:
		return statement.Information
	}
}

// Overview is the flat company profile returned by the OVERVIEW function
type Overview map[string]any

// StatementSet holds the four documents fetched for a single symbol
type StatementSet struct {
	Symbol   string
	Income   *Statement
	Balance  *Statement
	CashFlow *Statement
	Overview Overview
}

// Validate checks that every statement carries at least one annual report
func (set *StatementSet) Validate() error {
	statements := []struct {
		function  Function
		statement *Statement
	}{
		{IncomeStatement, set.Income},
		{BalanceSheet, set.Balance},
		{CashFlow, set.CashFlow},
	}

	for _, item := range statements {
		if item.statement == nil || len(item.statement.AnnualReports) == 0 {
			if item.statement != nil && item.statement.Diagnostic() != "" {
				return fmt.Errorf("%w for %s (%s: %s)", ErrMissingAnnualReports, set.Symbol, item.function, item.statement.Diagnostic())
			}

			return fmt.Errorf("%w for %s (%s)", ErrMissingAnnualReports, set.Symbol, item.function)
		}
	}

	return nil
}
