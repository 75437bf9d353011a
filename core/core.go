// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core bootstraps a Vulkan device for the canvas: it enumerates
// runtime capabilities, scores and selects a physical device against a
// probe surface, and brings up the logical device with a graphics queue.
// Every native handle acquired along the way is held in a scoped resource
// and released in reverse acquisition order.
//
// The package is single threaded and fully synchronous. Callers that
// share an Enumerator, Catalog or DeviceSetup across goroutines must
// serialize access themselves; the expected deployment is one
// initialisation thread.
package core

import "fmt"

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}
