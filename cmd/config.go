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
	"github.com/penny-vault/faangdata/alphavantage"
	"github.com/penny-vault/faangdata/pkginfo"
	"github.com/penny-vault/faangdata/tsdata"
	"github.com/spf13/viper"
)

// newClient builds an Alpha Vantage client from the merged configuration
func newClient() (*alphavantage.Client, error) {
	return alphavantage.New(viper.GetString("alphavantage.api_key"),
		alphavantage.WithBaseURL(viper.GetString("alphavantage.base_url")),
		alphavantage.WithRequestsPerMinute(viper.GetInt("alphavantage.requests_per_minute")),
		alphavantage.WithPacer(&alphavantage.FixedDelay{
			CallDelay:   viper.GetDuration("alphavantage.call_delay"),
			SymbolDelay: viper.GetDuration("alphavantage.symbol_delay"),
		}),
		alphavantage.WithUserAgent(pkginfo.UserAgent()),
	)
}

func outputPath() (string, error) {
	if outPath := viper.GetString("output"); outPath != "" {
		return outPath, nil
	}

	return tsdata.DefaultPath()
}
