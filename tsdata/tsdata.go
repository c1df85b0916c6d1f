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
package tsdata

import (
	"bytes"
	"embed"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/penny-vault/faangdata/financials"
)

//go:embed faang.ts.tmpl
var templateFS embed.FS

var (
	moduleTemplate = template.Must(template.New("faang.ts.tmpl").Funcs(template.FuncMap{
		"union":   Union,
		"escape":  Escape,
		"decimal": Decimal,
		"number":  Number,
	}).ParseFS(templateFS, "faang.ts.tmpl"))

	escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
)

type moduleData struct {
	Symbols   []string
	Companies []*financials.CompanyFinancials
}

// Render produces the TypeScript module for companies. Records are emitted in
// the order given.
func Render(companies []*financials.CompanyFinancials) ([]byte, error) {
	var buf bytes.Buffer

	data := moduleData{
		Symbols:   financials.Symbols(),
		Companies: companies,
	}

	if err := moduleTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Write renders companies and overwrites the file at path. Nothing is written
// if rendering fails.
func Write(path string, companies []*financials.CompanyFinancials) error {
	content, err := Render(companies)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

// DefaultPath returns ../data/faang.ts relative to the directory holding the
// running executable
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Abs(filepath.Join(filepath.Dir(exe), "..", "data", "faang.ts"))
}

// Union renders a TypeScript union of string literals
func Union(symbols []string) string {
	literals := make([]string, len(symbols))
	for idx, symbol := range symbols {
		literals[idx] = `"` + Escape(symbol) + `"`
	}

	return strings.Join(literals, " | ")
}

// Escape makes s safe to embed in a double quoted string literal
func Escape(s string) string {
	return escaper.Replace(s)
}

// Decimal formats a computed value so it always carries a fractional part
// (200 -> 200.0)
func Decimal(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.0"
	}

	str := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(str, ".") {
		str += ".0"
	}

	return str
}

// Number formats a curated value in its shortest form (5, 2.5)
func Number(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0"
	}

	return strconv.FormatFloat(x, 'f', -1, 64)
}
