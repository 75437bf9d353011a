// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	vk "github.com/devblok/vulkan"
)

// Capability is a named, queryable feature of the Vulkan runtime, an
// instance extension or a layer.
type Capability struct {
	Name        string `json:"name"`
	SpecVersion uint32 `json:"specVersion"`
}

// FetchFunc queries the runtime for the complete capability list of one
// kind. Implementations follow the two-call pattern: count first, then
// data.
type FetchFunc func() ([]Capability, error)

// Enumerator is a cached capability lookup. The cache starts empty, Has
// reports false for everything until the first successful UpdateCache.
// Construct one per capability kind and keep it where its lifetime is
// visible, there is no hidden process-wide instance.
//
// Not safe for concurrent use: UpdateCache must not interleave with
// readers.
type Enumerator struct {
	query           string
	fetch           FetchFunc
	requireNonEmpty bool
	cache           map[string]Capability
}

// NewEnumerator creates an enumerator over an arbitrary fetch function.
// query names the underlying native call for error reporting. When
// requireNonEmpty is set, an empty fetch result fails the cache update.
func NewEnumerator(query string, fetch FetchFunc, requireNonEmpty bool) *Enumerator {
	return &Enumerator{query: query, fetch: fetch, requireNonEmpty: requireNonEmpty}
}

// NewExtensionEnumerator enumerates instance extensions. A runtime that
// reports zero extensions cannot present anything, so an empty result is
// treated as a failure.
func NewExtensionEnumerator() *Enumerator {
	return NewEnumerator("vk.EnumerateInstanceExtensionProperties", fetchInstanceExtensions, true)
}

// NewLayerEnumerator enumerates instance layers. Zero layers is a valid
// state.
func NewLayerEnumerator() *Enumerator {
	return NewEnumerator("vk.EnumerateInstanceLayerProperties", fetchInstanceLayers, false)
}

// UpdateCache refreshes the cache wholesale, replacing whatever was there
// before. On failure the previous cache is kept.
func (e *Enumerator) UpdateCache() error {
	caps, err := e.fetch()
	if err != nil {
		return err
	}
	if e.requireNonEmpty && len(caps) == 0 {
		return &EnumerationError{Query: e.query}
	}
	next := make(map[string]Capability, len(caps))
	for _, c := range caps {
		next[c.Name] = c
	}
	e.cache = next
	return nil
}

// Has performs an exact, case-sensitive lookup against the cached entries.
func (e *Enumerator) Has(name string) bool {
	_, ok := e.cache[name]
	return ok
}

// Capabilities returns the cached entries in unspecified order.
func (e *Enumerator) Capabilities() []Capability {
	caps := make([]Capability, 0, len(e.cache))
	for _, c := range e.cache {
		caps = append(caps, c)
	}
	return caps
}

func fetchInstanceExtensions() ([]Capability, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateInstanceExtensionProperties", Err: err}
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateInstanceExtensionProperties", Err: err}
	}

	caps := make([]Capability, 0, len(props))
	for _, prop := range props {
		prop.Deref()
		caps = append(caps, Capability{
			Name:        vk.ToString(prop.ExtensionName[:]),
			SpecVersion: prop.SpecVersion,
		})
	}
	return caps, nil
}

func fetchInstanceLayers() ([]Capability, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateInstanceLayerProperties", Err: err}
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateInstanceLayerProperties", Err: err}
	}

	caps := make([]Capability, 0, len(props))
	for _, prop := range props {
		prop.Deref()
		caps = append(caps, Capability{
			Name:        vk.ToString(prop.LayerName[:]),
			SpecVersion: prop.SpecVersion,
		})
	}
	return caps, nil
}
