// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
)

// Configuration defines a global canvas configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Instance InstanceConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the event loop polling interval in milliseconds
	EventPollDelay int
}

// InstanceConfiguration is used to configure the device setup pipeline
type InstanceConfiguration struct {
	// DebugMode loads validation layers and attaches the debug report hook
	DebugMode bool

	// Extensions and Layers are requested on top of whatever the window
	// system requires
	Extensions []string
	Layers     []string

	// DeviceExtensions are requested on the logical device
	DeviceExtensions []string
}

// FromEnv assembles a Configuration from the environment, falling back to
// sane defaults. Recognised variables: VKCANVAS_DEBUG, VKCANVAS_FPS,
// VKCANVAS_POLL_MS, VKCANVAS_DEVICE_EXTENSIONS (comma separated).
func FromEnv() Configuration {
	cfg := Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: envInt("VKCANVAS_FPS", 60),
			EventPollDelay:  envInt("VKCANVAS_POLL_MS", 50),
		},
		Instance: InstanceConfiguration{
			DebugMode: envBool("VKCANVAS_DEBUG", false),
		},
	}
	if list := envy.Get("VKCANVAS_DEVICE_EXTENSIONS", ""); list != "" {
		for _, ext := range strings.Split(list, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				cfg.Instance.DeviceExtensions = append(cfg.Instance.DeviceExtensions, ext)
			}
		}
	}
	return cfg
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(envy.Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(envy.Get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
