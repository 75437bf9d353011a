// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/devblok/vkcanvas/core"
)

func TestNewTimeZeroConfig(t *testing.T) {
	timeService := core.NewTime(core.TimeConfiguration{})
	defer timeService.Stop()

	if timeService.FpsTicker() == nil || timeService.EventTicker() == nil {
		t.Error("tickers must run even with an all-zero configuration")
	}
}

func TestNewTimeReportsConfiguredFps(t *testing.T) {
	timeService := core.NewTime(core.TimeConfiguration{FramesPerSecond: 144, EventPollDelay: 50})
	defer timeService.Stop()

	if timeService.Fps() != 144 {
		t.Errorf("fps = %d, want 144", timeService.Fps())
	}
}
