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
package financials_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/penny-vault/faangdata/financials"
)

func exampleSet(symbol string) *alphavantage.StatementSet {
	return &alphavantage.StatementSet{
		Symbol: symbol,
		Income: &alphavantage.Statement{
			AnnualReports: []alphavantage.Report{
				{
					"fiscalDateEnding": "2023-12-31",
					"totalRevenue":     "200000000",
					"operatingIncome":  "50000000",
				},
				{
					"fiscalDateEnding": "2022-12-31",
					"totalRevenue":     "100000000",
					"operatingIncome":  "10000000",
				},
			},
		},
		Balance: &alphavantage.Statement{
			AnnualReports: []alphavantage.Report{
				{
					"fiscalDateEnding":                      "2023-12-31",
					"cashAndCashEquivalentsAtCarryingValue": "10000000",
					"totalDebt":                             "20000000",
				},
			},
		},
		CashFlow: &alphavantage.Statement{
			AnnualReports: []alphavantage.Report{
				{
					"fiscalDateEnding":            "2023-12-31",
					"depreciationAndAmortization": "6000000",
					"capitalExpenditures":         "9000000",
					"changeInWorkingCapital":      "1000000",
				},
			},
		},
		Overview: alphavantage.Overview{
			"Name":              "Example Inc",
			"SharesOutstanding": "1000000000",
		},
	}
}

var _ = Describe("Normalize", func() {
	var (
		ctx    context.Context
		logBuf *bytes.Buffer
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		logger := zerolog.New(logBuf)
		ctx = logger.WithContext(context.Background())
	})

	It("converts the most recent annual report into millions", func() {
		company, err := financials.Normalize(ctx, exampleSet("EXMP"))
		Expect(err).ToNot(HaveOccurred())

		Expect(company.ID).To(Equal("EXMP"))
		Expect(company.Ticker).To(Equal("EXMP"))
		Expect(company.Name).To(Equal("Example Inc"))
		Expect(company.BaseYear).To(Equal(2023))
		Expect(company.Revenue).To(Equal(200.0))
		Expect(company.Ebit).To(Equal(50.0))
		Expect(company.DA).To(Equal(6.0))
		Expect(company.Capex).To(Equal(9.0))
		Expect(company.ChangeNwc).To(Equal(1.0))
		Expect(company.Cash).To(Equal(10.0))
		Expect(company.Debt).To(Equal(20.0))
		Expect(company.SharesOutstanding).To(Equal(1000.0))
		Expect(company.EbitMargin).To(Equal(25.0))
	})

	It("uses the fallback assumptions for a symbol outside the table", func() {
		company, err := financials.Normalize(ctx, exampleSet("EXMP"))
		Expect(err).ToNot(HaveOccurred())
		Expect(company.Growth).To(Equal(5.0))
		Expect(company.TaxRate).To(Equal(20.0))
		Expect(company.Wacc).To(Equal(9.0))
		Expect(company.TerminalGrowth).To(Equal(2.0))
	})

	It("merges the curated assumptions but recomputes the margin", func() {
		company, err := financials.Normalize(ctx, exampleSet("AMZN"))
		Expect(err).ToNot(HaveOccurred())
		Expect(company.Growth).To(Equal(8.0))
		Expect(company.CapexPct).To(Equal(9.0))
		Expect(company.TerminalGrowth).To(Equal(2.5))
		Expect(company.EbitMargin).To(Equal(25.0))
	})

	It("defaults missing and null-like fields to zero", func() {
		set := exampleSet("EXMP")
		delete(set.Balance.AnnualReports[0], "totalDebt")
		set.CashFlow.AnnualReports[0]["capitalExpenditures"] = "None"
		set.CashFlow.AnnualReports[0]["changeInWorkingCapital"] = nil
		set.Overview["SharesOutstanding"] = "0"

		company, err := financials.Normalize(ctx, set)
		Expect(err).ToNot(HaveOccurred())
		Expect(company.Debt).To(Equal(0.0))
		Expect(company.Capex).To(Equal(0.0))
		Expect(company.ChangeNwc).To(Equal(0.0))
		Expect(company.SharesOutstanding).To(Equal(0.0))
	})

	It("falls back to the symbol when the overview has no name", func() {
		set := exampleSet("EXMP")
		delete(set.Overview, "Name")

		company, err := financials.Normalize(ctx, set)
		Expect(err).ToNot(HaveOccurred())
		Expect(company.Name).To(Equal("EXMP"))
	})

	It("warns but continues when revenue and operating income are both zero", func() {
		set := exampleSet("META")
		set.Income.AnnualReports[0]["totalRevenue"] = "None"
		set.Income.AnnualReports[0]["operatingIncome"] = ""

		company, err := financials.Normalize(ctx, set)
		Expect(err).ToNot(HaveOccurred())
		Expect(company.Revenue).To(Equal(0.0))
		Expect(company.EbitMargin).To(Equal(40.0))
		Expect(logBuf.String()).To(ContainSubstring("revenue and operating income are both zero"))
	})

	It("keeps the first report but flags out of order lists", func() {
		set := exampleSet("EXMP")
		set.Income.AnnualReports[1]["fiscalDateEnding"] = "2024-12-31"

		company, err := financials.Normalize(ctx, set)
		Expect(err).ToNot(HaveOccurred())
		Expect(company.BaseYear).To(Equal(2023))
		Expect(logBuf.String()).To(ContainSubstring("not ordered most recent first"))
	})

	It("sets the base year to zero when the fiscal date is missing", func() {
		set := exampleSet("EXMP")
		delete(set.Income.AnnualReports[0], "fiscalDateEnding")
		delete(set.Income.AnnualReports[1], "fiscalDateEnding")

		company, err := financials.Normalize(ctx, set)
		Expect(err).ToNot(HaveOccurred())
		Expect(company.BaseYear).To(Equal(0))
	})

	It("rejects a statement without annual reports", func() {
		set := exampleSet("EXMP")
		set.Balance.AnnualReports = nil

		_, err := financials.Normalize(ctx, set)
		Expect(err).To(MatchError(alphavantage.ErrMissingAnnualReports))
	})
})

var _ = Describe("BaseYear", func() {
	DescribeTable("parses the leading year",
		func(fiscalDate string, expected int) {
			year, err := financials.BaseYear(fiscalDate)
			Expect(err).ToNot(HaveOccurred())
			Expect(year).To(Equal(expected))
		},
		Entry("full date", "2023-09-30", 2023),
		Entry("year only", "2021", 2021),
		Entry("empty", "", 0),
	)

	It("rejects a non-numeric year", func() {
		_, err := financials.BaseYear("FY23-12-31")
		Expect(err).To(MatchError(financials.ErrInvalidFiscalDate))
	})
})
