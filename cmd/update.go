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
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/penny-vault/faangdata/healthcheck"
	"github.com/penny-vault/faangdata/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch fresh financials for every FAANG company and rewrite data/faang.ts",
	Long: `The update sub-command fetches the income statement, balance sheet, cash flow
statement, and company overview of AAPL, AMZN, META, NFLX, and GOOGL (in that
order) and replaces the generated TypeScript module. Any failure stops the run
before the output file is touched.`,
	Args: cobra.NoArgs,
	Run:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) {
	runID := uuid.New().String()
	logger := log.With().Str("RunID", runID).Logger()
	ctx := logger.WithContext(context.Background())

	outPath, err := outputPath()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not determine output path")
	}

	client, err := newClient()
	if err != nil {
		logger.Fatal().Err(err).Msg("set the Faang environment variable to your Alpha Vantage API key")
	}

	check := healthcheck.New(viper.GetString("healthchecks.ping_url"))
	if err := check.Start(ctx, runID); err != nil {
		logger.Warn().Err(err).Msg("could not signal start to healthcheck")
	}

	startTime := time.Now()

	if err := pipeline.Update(ctx, client, outPath, os.Stdout); err != nil {
		if hcErr := check.Fail(ctx, runID, err.Error()); hcErr != nil {
			logger.Warn().Err(hcErr).Msg("could not signal failure to healthcheck")
		}

		logger.Fatal().Err(err).Msg("update failed")
	}

	if err := check.Success(ctx, runID); err != nil {
		logger.Warn().Err(err).Msg("could not signal success to healthcheck")
	}

	runTime := time.Since(startTime)
	logger.Info().Str("RunTime", durafmt.Parse(runTime).LimitFirstN(2).String()).Msg("update complete")
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
