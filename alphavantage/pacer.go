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
	"time"
)

const (
	DefaultCallDelay   = 12 * time.Second
	DefaultSymbolDelay = 15 * time.Second
)

// Pacer spaces out requests so a batch stays under the provider's per-minute
// quota
type Pacer interface {
	// AfterCall is invoked after each statement request of a symbol except
	// the final overview request
	AfterCall(ctx context.Context) error

	// BetweenSymbols is invoked once between two consecutive symbols
	BetweenSymbols(ctx context.Context) error
}

// FixedDelay pauses for a constant duration; it does not look at the
// response headers or adapt to throttling
type FixedDelay struct {
	CallDelay   time.Duration
	SymbolDelay time.Duration
}

// DefaultPacer returns the delays needed by the free Alpha Vantage tier
func DefaultPacer() *FixedDelay {
	return &FixedDelay{
		CallDelay:   DefaultCallDelay,
		SymbolDelay: DefaultSymbolDelay,
	}
}

func (pacer *FixedDelay) AfterCall(ctx context.Context) error {
	return sleep(ctx, pacer.CallDelay)
}

func (pacer *FixedDelay) BetweenSymbols(ctx context.Context) error {
	return sleep(ctx, pacer.SymbolDelay)
}

func sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
