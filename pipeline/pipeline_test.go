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
package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/penny-vault/faangdata/financials"
	"github.com/penny-vault/faangdata/pipeline"
)

var errUpstream = errors.New("upstream exploded")

type fakeFetcher struct {
	requested      []string
	betweenSymbols int
	failOn         string
	emptyOn        string
	zeroOn         string
}

func (fetcher *fakeFetcher) FetchStatements(ctx context.Context, symbol string) (*alphavantage.StatementSet, error) {
	fetcher.requested = append(fetcher.requested, symbol)

	if symbol == fetcher.failOn {
		return nil, errUpstream
	}

	revenue, operatingIncome := "200000000", "50000000"
	if symbol == fetcher.zeroOn {
		revenue, operatingIncome = "None", "0"
	}

	report := func(fields map[string]any) []alphavantage.Report {
		if symbol == fetcher.emptyOn {
			return nil
		}
		return []alphavantage.Report{fields}
	}

	return &alphavantage.StatementSet{
		Symbol: symbol,
		Income: &alphavantage.Statement{AnnualReports: report(map[string]any{
			"fiscalDateEnding": "2023-12-31",
			"totalRevenue":     revenue,
			"operatingIncome":  operatingIncome,
		})},
		Balance: &alphavantage.Statement{AnnualReports: []alphavantage.Report{{
			"cashAndCashEquivalentsAtCarryingValue": "10000000",
			"totalDebt":                             "20000000",
		}}},
		CashFlow: &alphavantage.Statement{AnnualReports: []alphavantage.Report{{
			"depreciationAndAmortization": "6000000",
		}}},
		Overview: alphavantage.Overview{"Name": symbol + " Inc", "SharesOutstanding": "1000000000"},
	}, nil
}

func (fetcher *fakeFetcher) BetweenSymbols(ctx context.Context) error {
	fetcher.betweenSymbols++
	return nil
}

var _ = Describe("Collect", func() {
	var (
		fetcher *fakeFetcher
		out     *bytes.Buffer
		ctx     context.Context
	)

	BeforeEach(func() {
		fetcher = &fakeFetcher{}
		out = &bytes.Buffer{}
		ctx = context.Background()
	})

	It("returns one record per symbol in batch order", func() {
		companies, err := pipeline.Collect(ctx, fetcher, financials.Symbols(), out)
		Expect(err).ToNot(HaveOccurred())
		Expect(companies).To(HaveLen(5))

		for idx, symbol := range financials.Symbols() {
			Expect(companies[idx].ID).To(Equal(symbol))
			Expect(companies[idx].Revenue).To(Equal(200.0))
			Expect(companies[idx].EbitMargin).To(Equal(25.0))
		}
	})

	It("pauses between symbols but not after the last one", func() {
		_, err := pipeline.Collect(ctx, fetcher, financials.Symbols(), out)
		Expect(err).ToNot(HaveOccurred())
		Expect(fetcher.betweenSymbols).To(Equal(4))
	})

	It("prints a header for each symbol", func() {
		_, err := pipeline.Collect(ctx, fetcher, []string{"AAPL", "NFLX"}, out)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("=== Fetching AAPL ==="))
		Expect(out.String()).To(ContainSubstring("=== Fetching NFLX ==="))
	})

	It("prints an advisory line next to the header when revenue and operating income are zero", func() {
		fetcher.zeroOn = "META"

		companies, err := pipeline.Collect(ctx, fetcher, financials.Symbols(), out)
		Expect(err).ToNot(HaveOccurred())
		Expect(companies).To(HaveLen(5))

		Expect(out.String()).To(ContainSubstring("Warning: revenue and operating income are both zero for META\n"))
		Expect(strings.Count(out.String(), "Warning:")).To(Equal(1))
		Expect(strings.Index(out.String(), "Fetching META")).To(BeNumerically("<", strings.Index(out.String(), "Warning:")))
	})

	It("stops at the first failing symbol", func() {
		fetcher.failOn = "META"

		_, err := pipeline.Collect(ctx, fetcher, financials.Symbols(), out)
		Expect(err).To(MatchError(errUpstream))
		Expect(fetcher.requested).To(Equal([]string{"AAPL", "AMZN", "META"}))
	})

	It("stops when a symbol has no annual reports", func() {
		fetcher.emptyOn = "AMZN"

		_, err := pipeline.Collect(ctx, fetcher, financials.Symbols(), out)
		Expect(err).To(MatchError(alphavantage.ErrMissingAnnualReports))
		Expect(err.Error()).To(ContainSubstring("AMZN"))
		Expect(fetcher.requested).To(Equal([]string{"AAPL", "AMZN"}))
	})
})

var _ = Describe("Update", func() {
	var (
		outPath string
		out     *bytes.Buffer
		ctx     context.Context
	)

	BeforeEach(func() {
		outPath = filepath.Join(GinkgoT().TempDir(), "data", "faang.ts")
		out = &bytes.Buffer{}
		ctx = context.Background()
	})

	It("writes the module and reports where it went", func() {
		Expect(pipeline.Update(ctx, &fakeFetcher{}, outPath, out)).To(Succeed())

		content, err := os.ReadFile(outPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(strings.Count(string(content), "    ticker: ")).To(Equal(5))
		Expect(out.String()).To(ContainSubstring("Updated " + outPath + " with fresh FAANG financials from Alpha Vantage."))
	})

	It("leaves an existing file untouched when a symbol fails", func() {
		Expect(os.MkdirAll(filepath.Dir(outPath), 0755)).To(Succeed())
		Expect(os.WriteFile(outPath, []byte("previous generation"), 0644)).To(Succeed())

		err := pipeline.Update(ctx, &fakeFetcher{emptyOn: "GOOGL"}, outPath, out)
		Expect(err).To(MatchError(alphavantage.ErrMissingAnnualReports))

		content, err := os.ReadFile(outPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("previous generation"))
	})

	It("runs end to end against an Alpha Vantage compatible server", func() {
		files := map[string]string{
			"INCOME_STATEMENT": "income.json",
			"BALANCE_SHEET":    "balance.json",
			"CASH_FLOW":        "cashflow.json",
			"OVERVIEW":         "overview.json",
		}
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			http.ServeFile(w, r, filepath.Join("..", "alphavantage", "testdata", files[r.URL.Query().Get("function")]))
		}))
		defer server.Close()

		client, err := alphavantage.New("test-key",
			alphavantage.WithBaseURL(server.URL),
			alphavantage.WithRequestsPerMinute(0),
			alphavantage.WithPacer(&alphavantage.FixedDelay{}),
		)
		Expect(err).ToNot(HaveOccurred())

		Expect(pipeline.Update(ctx, client, outPath, out)).To(Succeed())
		Expect(requests).To(Equal(20))

		content, err := os.ReadFile(outPath)
		Expect(err).ToNot(HaveOccurred())
		module := string(content)
		Expect(module).To(ContainSubstring(`    id: "GOOGL",
    name: "Example Inc",
    ticker: "GOOGL",
    baseYear: 2023,
    revenue: 200.0,
    ebit: 50.0,
    da: 6.0,
    capex: 9.0,
    changeNwc: 1.0,

    cash: 10.0,
    debt: 20.0,
    sharesOutstanding: 1000.0,

    defaultGrowth: 6,
    defaultEbitMargin: 25.0,`))
	})
})

var _ = Describe("ParseSymbols", func() {
	It("selects the whole batch when no symbols are given", func() {
		symbols, err := pipeline.ParseSymbols(nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(symbols).To(Equal(financials.Symbols()))
	})

	It("normalizes case", func() {
		symbols, err := pipeline.ParseSymbols([]string{"nflx", " meta"})
		Expect(err).ToNot(HaveOccurred())
		Expect(symbols).To(Equal([]string{"NFLX", "META"}))
	})

	It("rejects tickers outside the batch", func() {
		_, err := pipeline.ParseSymbols([]string{"AAPL", "MSFT"})
		Expect(err).To(MatchError(pipeline.ErrUnknownSymbol))
		Expect(err.Error()).To(ContainSubstring("MSFT"))
	})
})
