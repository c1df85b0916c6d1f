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
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type alphaVantageSettings struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	CallDelay         string `toml:"call_delay"`
	SymbolDelay       string `toml:"symbol_delay"`
}

type healthchecksSettings struct {
	PingURL string `toml:"ping_url,omitempty"`
}

type settings struct {
	Output       string               `toml:"output,omitempty"`
	AlphaVantage alphaVantageSettings `toml:"alphavantage"`
	Healthchecks healthchecksSettings `toml:"healthchecks"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather the Alpha Vantage API key and output settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		mySettings := &settings{
			AlphaVantage: alphaVantageSettings{
				BaseURL:           alphavantage.DefaultBaseURL,
				RequestsPerMinute: alphavantage.DefaultRequestsPerMinute,
				CallDelay:         alphavantage.DefaultCallDelay.String(),
				SymbolDelay:       alphavantage.DefaultSymbolDelay.String(),
			},
		}

		form := huh.NewForm(
			// Alpha Vantage credentials
			huh.NewGroup(
				huh.NewInput().
					Title("Alpha Vantage API key (https://www.alphavantage.co/support/#api-key):").
					Password(true).
					Value(&mySettings.AlphaVantage.APIKey).
					Validate(func(key string) error {
						if strings.TrimSpace(key) == "" {
							return alphavantage.ErrMissingAPIKey
						}
						return nil
					}),
			),

			// Where the results go
			huh.NewGroup(
				huh.NewInput().
					Title("Path of the generated module (leave blank for ../data/faang.ts next to the executable):").
					Value(&mySettings.Output),

				huh.NewInput().
					Title("healthchecks.io ping URL (optional):").
					Value(&mySettings.Healthchecks.PingURL),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering settings")
		}

		mySettings.AlphaVantage.APIKey = strings.TrimSpace(mySettings.AlphaVantage.APIKey)
		mySettings.Output = strings.TrimSpace(mySettings.Output)
		mySettings.Healthchecks.PingURL = strings.TrimSpace(mySettings.Healthchecks.PingURL)

		configFN := cfgFile
		if configFN == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatal().Err(err).Msg("could not determine user home directory")
			}

			configFN = filepath.Join(home, ".faangdata.toml")
		}

		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")
		configData, err := toml.Marshal(mySettings)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		// the file holds the api key
		err = os.WriteFile(configFN, configData, 0600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("faangdata is configured; run `faangdata update` to refresh the data module")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
