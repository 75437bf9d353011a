// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"

	vk "github.com/devblok/vulkan"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// The callback must keep the exact signature the binding expects.
var _ vk.DebugReportCallbackFunc = debugReportCallback

func TestDebugReportSeverityMapping(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	previous := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(previous)

	cases := []struct {
		name  string
		flags vk.DebugReportFlags
		level log.Level
	}{
		{"error", vk.DebugReportFlags(vk.DebugReportErrorBit), log.ErrorLevel},
		{"warning", vk.DebugReportFlags(vk.DebugReportWarningBit), log.WarnLevel},
		{"perf warning", vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit), log.WarnLevel},
		{"info", vk.DebugReportFlags(vk.DebugReportInformationBit), log.InfoLevel},
		{"debug", vk.DebugReportFlags(vk.DebugReportDebugBit), log.DebugLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook.Reset()

			ret := debugReportCallback(tc.flags, vk.DebugReportObjectType(0), 0, 0, 42, "validation", "something happened", nil)
			if ret != vk.Bool32(vk.False) {
				t.Error("callback must never ask the runtime to abort")
			}

			entry := hook.LastEntry()
			if entry == nil {
				t.Fatal("no log entry emitted")
			}
			if entry.Level != tc.level {
				t.Errorf("logged at %v, want %v", entry.Level, tc.level)
			}
			if entry.Data["layer"] != "validation" {
				t.Errorf("layer field = %v, want validation", entry.Data["layer"])
			}
		})
	}
}

func TestDestroyOnZeroValueSetup(t *testing.T) {
	var s DeviceSetup
	s.Destroy()
	s.Destroy()
}
