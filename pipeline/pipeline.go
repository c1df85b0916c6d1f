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
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/penny-vault/faangdata/financials"
	"github.com/penny-vault/faangdata/tsdata"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// Fetcher retrieves the raw statements for one symbol and paces a batch
type Fetcher interface {
	FetchStatements(ctx context.Context, symbol string) (*alphavantage.StatementSet, error)
	BetweenSymbols(ctx context.Context) error
}

// Collect fetches and normalizes each symbol in order. The first failure
// stops the batch; symbols after it are never requested.
func Collect(ctx context.Context, fetcher Fetcher, symbols []string, out io.Writer) ([]*financials.CompanyFinancials, error) {
	companies := make([]*financials.CompanyFinancials, 0, len(symbols))

	for idx, symbol := range symbols {
		fmt.Fprintf(out, "\n%s\n", headerStyle.Render(fmt.Sprintf("=== Fetching %s ===", symbol)))

		symbolLogger := zerolog.Ctx(ctx).With().Str("Symbol", symbol).Logger()
		symbolCtx := symbolLogger.WithContext(ctx)

		set, err := fetcher.FetchStatements(symbolCtx, symbol)
		if err != nil {
			return nil, err
		}

		company, err := financials.Normalize(symbolCtx, set)
		if err != nil {
			return nil, err
		}

		if company.Revenue == 0 && company.Ebit == 0 {
			fmt.Fprintf(out, "Warning: revenue and operating income are both zero for %s\n", symbol)
		}

		companies = append(companies, company)

		if idx < len(symbols)-1 {
			if err := fetcher.BetweenSymbols(ctx); err != nil {
				return nil, err
			}
		}
	}

	return companies, nil
}

// Update runs the full batch and overwrites outPath with the generated
// module. outPath is left untouched if any symbol fails.
func Update(ctx context.Context, fetcher Fetcher, outPath string, out io.Writer) error {
	logger := zerolog.Ctx(ctx)
	startTime := time.Now()

	companies, err := Collect(ctx, fetcher, financials.Symbols(), out)
	if err != nil {
		return err
	}

	if err := tsdata.Write(outPath, companies); err != nil {
		logger.Error().Err(err).Str("FileName", outPath).Msg("could not write data module")
		return err
	}

	logger.Info().Str("FileName", outPath).Int("NumCompanies", len(companies)).
		Dur("RunTime", time.Since(startTime)).Msg("data module written")

	fmt.Fprintf(out, "\n Updated %s with fresh FAANG financials from Alpha Vantage.\n", outPath)

	return nil
}

// ParseSymbols validates user supplied tickers against the fixed batch. No
// arguments selects the whole batch.
func ParseSymbols(args []string) ([]string, error) {
	if len(args) == 0 {
		return financials.Symbols(), nil
	}

	symbols := make([]string, 0, len(args))
	for _, arg := range args {
		symbol := strings.ToUpper(strings.TrimSpace(arg))
		if !financials.IsKnownSymbol(symbol) {
			return nil, fmt.Errorf("%w: %s (expected one of %s)", ErrUnknownSymbol, arg, strings.Join(financials.Symbols(), ", "))
		}
		symbols = append(symbols, symbol)
	}

	return symbols, nil
}
