// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/gobuffalo/envy"

	"github.com/devblok/vkcanvas/core"
)

func TestFromEnv(t *testing.T) {
	envy.Temp(func() {
		envy.Set("VKCANVAS_DEBUG", "true")
		envy.Set("VKCANVAS_FPS", "144")
		envy.Set("VKCANVAS_POLL_MS", "10")
		envy.Set("VKCANVAS_DEVICE_EXTENSIONS", "VK_KHR_swapchain, VK_EXT_memory_budget")

		cfg := core.FromEnv()

		if !cfg.Instance.DebugMode {
			t.Error("debug mode not picked up")
		}
		if cfg.Time.FramesPerSecond != 144 || cfg.Time.EventPollDelay != 10 {
			t.Errorf("time config = %+v", cfg.Time)
		}
		if len(cfg.Instance.DeviceExtensions) != 2 || cfg.Instance.DeviceExtensions[1] != "VK_EXT_memory_budget" {
			t.Errorf("device extensions = %v", cfg.Instance.DeviceExtensions)
		}
	})
}

func TestFromEnvDefaults(t *testing.T) {
	envy.Temp(func() {
		envy.Set("VKCANVAS_DEBUG", "")
		envy.Set("VKCANVAS_FPS", "")
		envy.Set("VKCANVAS_POLL_MS", "")
		envy.Set("VKCANVAS_DEVICE_EXTENSIONS", "")

		cfg := core.FromEnv()

		if cfg.Instance.DebugMode {
			t.Error("debug mode should default to off")
		}
		if cfg.Time.FramesPerSecond != 60 || cfg.Time.EventPollDelay != 50 {
			t.Errorf("time defaults = %+v", cfg.Time)
		}
		if cfg.Instance.DeviceExtensions != nil {
			t.Errorf("device extensions = %v, want none", cfg.Instance.DeviceExtensions)
		}
	})
}
