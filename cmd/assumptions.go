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
	"github.com/penny-vault/faangdata/valuation"
	"github.com/spf13/cobra"
)

// assumptionsCmd represents the assumptions command
var assumptionsCmd = &cobra.Command{
	Use:   "assumptions",
	Short: "Show the default valuation assumptions written with each company",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		render(valuation.AssumptionsTable())
	},
}

func init() {
	rootCmd.AddCommand(assumptionsCmd)
}
