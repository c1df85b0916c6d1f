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
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/penny-vault/faangdata/pipeline"
	"github.com/penny-vault/faangdata/valuation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var valueCSV bool

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value [SYMBOL...]",
	Short: "Value companies with a discounted cash flow model using fresh financials",
	Long: `The value sub-command fetches the latest financials for the given symbols (all
FAANG companies when none are given), runs a five year discounted cash flow
model with the default assumptions, and prints a report. Nothing is written to
disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		symbols, err := pipeline.ParseSymbols(args)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid symbol")
		}

		client, err := newClient()
		if err != nil {
			log.Fatal().Err(err).Msg("set the Faang environment variable to your Alpha Vantage API key")
		}

		// progress goes to stderr so stdout only carries the report
		companies, err := pipeline.Collect(ctx, client, symbols, os.Stderr)
		if err != nil {
			log.Fatal().Err(err).Msg("could not fetch financials")
		}

		if valueCSV {
			results := make(map[string]valuation.Result, len(companies))
			for _, company := range companies {
				results[company.Ticker] = valuation.Run(company, valuation.FromDefaults(company))
			}

			doc, err := valuation.CSV(results, symbols)
			if err != nil {
				log.Fatal().Err(err).Msg("could not marshal projections to csv")
			}

			fmt.Print(doc)
			return
		}

		builder := strings.Builder{}
		for idx, company := range companies {
			if idx > 0 {
				builder.WriteString("\n---\n\n")
			}

			assumptions := valuation.FromDefaults(company)
			result := valuation.Run(company, assumptions)
			sensitivity := valuation.Sensitivity(company, assumptions, 1, 0.5)
			builder.WriteString(valuation.Markdown(company, assumptions, result, sensitivity))
		}

		render(builder.String())
	},
}

func render(doc string) {
	r, _ := glamour.NewTermRenderer(
		// detect background color and pick either the default dark or light theme
		glamour.WithAutoStyle(),
		// wrap output at specific width (default is 80)
		glamour.WithWordWrap(100),
	)

	out, err := r.Render(doc)
	if err != nil {
		log.Fatal().Err(err).Msg("could not render document")
	}

	fmt.Print(out)
}

func init() {
	rootCmd.AddCommand(valueCmd)
	valueCmd.Flags().BoolVar(&valueCSV, "csv", false, "print the yearly projections as csv")
}
