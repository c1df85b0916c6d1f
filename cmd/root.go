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
	"strings"

	"github.com/joho/godotenv"
	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faangdata",
	Short: "faangdata refreshes the FAANG financials module from Alpha Vantage",
	Long: `faangdata downloads the latest annual income statement, balance sheet, cash
flow statement, and company overview for each FAANG company from Alpha Vantage,
converts the figures to millions of dollars, merges them with the default
valuation assumptions, and overwrites data/faang.ts.

Running faangdata without a sub-command performs the update. The free Alpha
Vantage tier allows 5 requests per minute so a full run takes several minutes.

The API key is read from the Faang or ALPHAVANTAGE_API_KEY environment
variables (a .env file in the working directory is honored) or from the
alphavantage.api_key setting in the config file.`,
	Run: runUpdate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.faangdata.toml)")

	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for log-level failed")
	}

	rootCmd.PersistentFlags().StringP("output", "o", "", "path of the generated module (default is ../data/faang.ts next to the executable)")
	if err := viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for output failed")
	}

	viper.SetDefault("alphavantage.base_url", alphavantage.DefaultBaseURL)
	viper.SetDefault("alphavantage.requests_per_minute", alphavantage.DefaultRequestsPerMinute)
	viper.SetDefault("alphavantage.call_delay", alphavantage.DefaultCallDelay)
	viper.SetDefault("alphavantage.symbol_delay", alphavantage.DefaultSymbolDelay)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// a missing .env is the common case
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".faangdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".faangdata")
	}

	// settings come from FAANGDATA_* variables, e.g. FAANGDATA_OUTPUT
	viper.SetEnvPrefix("FAANGDATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Faang wins over ALPHAVANTAGE_API_KEY; FAANGDATA_ALPHAVANTAGE_API_KEY wins over both

	if err := viper.BindEnv("alphavantage.api_key", "Faang", "ALPHAVANTAGE_API_KEY"); err != nil {
		log.Panic().Err(err).Msg("BindEnv for alphavantage.api_key failed")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}

	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.Warn().Err(err).Str("Level", viper.GetString("log.level")).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
}
