// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"errors"
	"testing"

	"github.com/devblok/vkcanvas/core"
)

func fetchOf(names ...string) core.FetchFunc {
	return func() ([]core.Capability, error) {
		caps := make([]core.Capability, 0, len(names))
		for _, name := range names {
			caps = append(caps, core.Capability{Name: name, SpecVersion: 1})
		}
		return caps, nil
	}
}

func TestHasBeforeFirstUpdate(t *testing.T) {
	enum := core.NewEnumerator("test", fetchOf("VK_KHR_surface"), false)

	if enum.Has("VK_KHR_surface") {
		t.Error("Has must report false before the cache is populated")
	}
}

func TestHasAfterUpdate(t *testing.T) {
	enum := core.NewEnumerator("test", fetchOf("VK_KHR_surface", "VK_EXT_debug_report"), false)

	if err := enum.UpdateCache(); err != nil {
		t.Fatal(err)
	}
	if !enum.Has("VK_EXT_debug_report") {
		t.Error("cached capability not found")
	}
	if enum.Has("vk_ext_debug_report") {
		t.Error("lookup must be case sensitive")
	}
	if enum.Has("VK_KHR_swapchain") {
		t.Error("uncached capability reported as present")
	}
}

func TestUpdateReplacesCacheWholesale(t *testing.T) {
	current := fetchOf("old")
	enum := core.NewEnumerator("test", func() ([]core.Capability, error) { return current() }, false)

	if err := enum.UpdateCache(); err != nil {
		t.Fatal(err)
	}
	current = fetchOf("new")
	if err := enum.UpdateCache(); err != nil {
		t.Fatal(err)
	}

	if enum.Has("old") {
		t.Error("stale entry survived a cache update")
	}
	if !enum.Has("new") {
		t.Error("fresh entry missing after cache update")
	}
}

func TestEmptyResultFailsWhenRequired(t *testing.T) {
	enum := core.NewEnumerator("vk.EnumerateInstanceExtensionProperties", fetchOf(), true)

	err := enum.UpdateCache()

	var enumeration *core.EnumerationError
	if !errors.As(err, &enumeration) {
		t.Fatalf("err = %v, want EnumerationError", err)
	}
	if enumeration.Err != nil {
		t.Error("zero-entry failure should carry no wrapped error")
	}
}

func TestEmptyResultAllowedWhenOptional(t *testing.T) {
	enum := core.NewEnumerator("vk.EnumerateInstanceLayerProperties", fetchOf(), false)

	if err := enum.UpdateCache(); err != nil {
		t.Fatal(err)
	}
	if enum.Has("anything") {
		t.Error("empty cache should contain nothing")
	}
}

func TestFetchFailureKeepsPreviousCache(t *testing.T) {
	fail := false
	enum := core.NewEnumerator("test", func() ([]core.Capability, error) {
		if fail {
			return nil, &core.EnumerationError{Query: "test", Err: errors.New("lost device")}
		}
		return []core.Capability{{Name: "VK_KHR_surface"}}, nil
	}, false)

	if err := enum.UpdateCache(); err != nil {
		t.Fatal(err)
	}
	fail = true
	if err := enum.UpdateCache(); err == nil {
		t.Fatal("expected fetch failure to propagate")
	}
	if !enum.Has("VK_KHR_surface") {
		t.Error("failed update must not clobber the previous cache")
	}
}
