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
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// Check pings a healthchecks.io style check. A Check with an empty ping URL
// is disabled and every call is a no-op.
type Check struct {
	pingURL string
	client  *resty.Client
}

// New returns a check for pingURL, e.g. https://hc-ping.com/<uuid>
func New(pingURL string) *Check {
	return &Check{
		pingURL: strings.TrimRight(pingURL, "/"),
		client:  resty.New(),
	}
}

// Enabled reports whether a ping URL was configured
func (check *Check) Enabled() bool {
	return check.pingURL != ""
}

// Start signals that a run has begun
func (check *Check) Start(ctx context.Context, runID string) error {
	return check.ping(ctx, "/start", runID, "")
}

// Success signals that the run completed
func (check *Check) Success(ctx context.Context, runID string) error {
	return check.ping(ctx, "", runID, "")
}

// Fail signals that the run failed; reason is sent as the request body
func (check *Check) Fail(ctx context.Context, runID string, reason string) error {
	return check.ping(ctx, "/fail", runID, reason)
}

func (check *Check) ping(ctx context.Context, suffix, runID, body string) error {
	if !check.Enabled() {
		return nil
	}

	req := check.client.R().SetContext(ctx)
	if runID != "" {
		req.SetQueryParam("rid", runID)
	}

	if body != "" {
		req.SetHeader("Content-Type", "text/plain").SetBody(body)
	}

	resp, err := req.Post(check.pingURL + suffix)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("Suffix", suffix).Msg("healthcheck ping failed")
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}
