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
package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://www.alphavantage.co/query"
	DefaultRequestsPerMinute = 5
)

var (
	ErrMissingAPIKey        = errors.New("alpha vantage api key is not set")
	ErrInvalidStatusCode    = errors.New("invalid status code received")
	ErrMissingAnnualReports = errors.New("missing annual reports")
)

// Client downloads financial statements from Alpha Vantage. A Client is not
// safe for concurrent use; requests are issued one at a time.
type Client struct {
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
	pacer   Pacer
}

type Option func(*Client)

// WithBaseURL overrides the query endpoint
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		client.baseURL = baseURL
	}
}

// WithRequestsPerMinute caps the request rate. Values <= 0 disable the cap.
func WithRequestsPerMinute(requestsPerMinute int) Option {
	return func(client *Client) {
		if requestsPerMinute <= 0 {
			client.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}

		client.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
}

// WithPacer replaces the fixed 12s/15s delays
func WithPacer(pacer Pacer) Option {
	return func(client *Client) {
		client.pacer = pacer
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(client *Client) {
		client.client.SetHeader("User-Agent", userAgent)
	}
}

// New creates a client that authenticates with apiKey. The key is checked
// here so a missing key fails before any network activity.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		baseURL: DefaultBaseURL,
		client: resty.New().
			SetQueryParam("apikey", apiKey).
			SetRetryCount(0),
		pacer: DefaultPacer(),
	}

	WithRequestsPerMinute(DefaultRequestsPerMinute)(client)

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// FetchStatements issues the income statement, balance sheet, cash flow, and
// overview requests for symbol in that order, pausing after each of the first
// three. Any failed request aborts immediately.
func (client *Client) FetchStatements(ctx context.Context, symbol string) (*StatementSet, error) {
	logger := zerolog.Ctx(ctx)

	set := &StatementSet{
		Symbol: symbol,
	}

	var err error

	if set.Income, err = client.statement(ctx, IncomeStatement, symbol); err != nil {
		return nil, err
	}

	if err := client.pacer.AfterCall(ctx); err != nil {
		return nil, err
	}

	if set.Balance, err = client.statement(ctx, BalanceSheet, symbol); err != nil {
		return nil, err
	}

	if err := client.pacer.AfterCall(ctx); err != nil {
		return nil, err
	}

	if set.CashFlow, err = client.statement(ctx, CashFlow, symbol); err != nil {
		return nil, err
	}

	if err := client.pacer.AfterCall(ctx); err != nil {
		return nil, err
	}

	body, err := client.query(ctx, CompanyOverview, symbol)
	if err != nil {
		return nil, err
	}

	set.Overview = make(Overview)
	if err := json.Unmarshal(body, &set.Overview); err != nil {
		logger.Error().Err(err).Str("Symbol", symbol).Msg("could not unmarshal alpha vantage company overview")
		return nil, fmt.Errorf("decode %s for %s: %w", CompanyOverview, symbol, err)
	}

	if err := set.Validate(); err != nil {
		logger.Error().Err(err).Str("Symbol", symbol).Msg("alpha vantage returned incomplete statements")
		return nil, err
	}

	return set, nil
}

// BetweenSymbols waits out the pause between two symbols of a batch
func (client *Client) BetweenSymbols(ctx context.Context) error {
	return client.pacer.BetweenSymbols(ctx)
}

func (client *Client) statement(ctx context.Context, function Function, symbol string) (*Statement, error) {
	body, err := client.query(ctx, function, symbol)
	if err != nil {
		return nil, err
	}

	statement := &Statement{}
	if err := json.Unmarshal(body, statement); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("Function", string(function)).Str("Symbol", symbol).
			Msg("could not unmarshal alpha vantage statement")
		return nil, fmt.Errorf("decode %s for %s: %w", function, symbol, err)
	}

	return statement, nil
}

func (client *Client) query(ctx context.Context, function Function, symbol string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	if err := client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	startTime := time.Now()

	// the request URL carries the api key so it is never logged
	resp, err := client.client.R().
		SetContext(ctx).
		SetQueryParam("function", string(function)).
		SetQueryParam("symbol", symbol).
		Get(client.baseURL)
	if err != nil {
		logger.Error().Err(err).Str("Function", string(function)).Str("Symbol", symbol).
			Msg("resty returned an error when querying alpha vantage")
		return nil, fmt.Errorf("%s for %s: %w", function, symbol, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("Function", string(function)).Str("Symbol", symbol).
			Str("ResponseBody", string(resp.Body())).Msg("alpha vantage returned an invalid HTTP response")
		return nil, fmt.Errorf("%w (%d) %s for %s: %s", ErrInvalidStatusCode, resp.StatusCode(), function, symbol, string(resp.Body()))
	}

	logger.Debug().Str("Function", string(function)).Str("Symbol", symbol).
		Dur("Elapsed", time.Since(startTime)).Int("Bytes", len(resp.Body())).Msg("fetched alpha vantage document")

	return resp.Body(), nil
}
