// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	vk "github.com/devblok/vulkan"
)

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Flags vk.QueueFlags `json:"flags"`
	Count uint32        `json:"count"`
}

// DeviceFeatures digests the feature bits the canvas cares about.
type DeviceFeatures struct {
	GeometryShader    bool `json:"geometryShader"`
	SamplerAnisotropy bool `json:"samplerAnisotropy"`
}

// DeviceRecord is the cached per-device data collected during one catalog
// refresh. Records keep enumeration order.
type DeviceRecord struct {
	Device vk.PhysicalDevice `json:"-"`

	Name                string                `json:"name"`
	VendorID            uint32                `json:"vendorId"`
	DeviceID            uint32                `json:"deviceId"`
	DriverVersion       uint32                `json:"driverVersion"`
	Class               vk.PhysicalDeviceType `json:"class"`
	MaxImageDimension2D uint32                `json:"maxImageDimension2D"`
	Memory              uint64                `json:"memory"`
	QueueFamilies       []QueueFamily         `json:"queueFamilies"`
	Features            DeviceFeatures        `json:"features"`
	Extensions          []string              `json:"extensions"`
	Layers              []string              `json:"layers"`

	// Invalid marks a record whose extension or layer queries failed.
	// Such a device still participates in selection, the inspection data
	// is just incomplete.
	Invalid bool `json:"invalid"`
}

// Selection is the scoring outcome for one candidate device. A nil family
// index means the requirement was not resolved. A negative score means the
// candidate is disqualified and must never be the final pick.
type Selection struct {
	Device     vk.PhysicalDevice
	DeviceName string

	GraphicsFamily *uint32
	PresentFamily  *uint32
	Score          int
}

// HasRequiredQueues reports whether all queue families the caller needs
// were resolved.
func (s Selection) HasRequiredQueues(needsPresent bool) bool {
	if s.GraphicsFamily == nil {
		return false
	}
	return !needsPresent || s.PresentFamily != nil
}

// PresentChecker reports whether the given queue family of the candidate
// can present to the surface the catalog was built against.
type PresentChecker func(family uint32) bool

// ScoreDevice computes the selection rubric for one candidate.
//
// The graphics family scan keeps the last matching family, later families
// override earlier ones. A nil present checker skips the presentation
// requirement entirely, for catalogs built without a surface.
func ScoreDevice(rec DeviceRecord, present PresentChecker) Selection {
	sel := Selection{Device: rec.Device, DeviceName: rec.Name}

	for i, family := range rec.QueueFamilies {
		if family.Flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			idx := uint32(i)
			sel.GraphicsFamily = &idx
		}
	}

	if present != nil {
		for i := range rec.QueueFamilies {
			if present(uint32(i)) {
				idx := uint32(i)
				sel.PresentFamily = &idx
				break
			}
		}
	}

	switch rec.Class {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		sel.Score += 1000
	case vk.PhysicalDeviceTypeIntegratedGpu:
		sel.Score += 100
	}
	sel.Score += int(rec.MaxImageDimension2D)

	// Disqualification overrides every heuristic above.
	if !sel.HasRequiredQueues(present != nil) {
		sel.Score = -1
	}
	return sel
}

// PickBest returns the highest-scoring selection. Ties break toward the
// earliest candidate. When every candidate is disqualified, or there are
// none, it fails with NoSuitableDeviceError.
func PickBest(selections []Selection) (Selection, error) {
	best := -1
	for i, sel := range selections {
		if sel.Score < 0 {
			continue
		}
		if best < 0 || sel.Score > selections[best].Score {
			best = i
		}
	}
	if best < 0 {
		return Selection{}, &NoSuitableDeviceError{Candidates: len(selections)}
	}
	return selections[best], nil
}

// NewCatalog creates a device catalog bound to instance. Pass
// vk.NullSurface to build a catalog without a presentation requirement,
// scoring will then skip the present-queue check.
func NewCatalog(instance vk.Instance, surface vk.Surface) *Catalog {
	return &Catalog{instance: instance, surface: surface}
}

// Catalog caches per-device capability data and implements candidate
// selection over it. Not safe for concurrent use.
type Catalog struct {
	instance vk.Instance
	surface  vk.Surface

	records  []DeviceRecord
	byHandle map[vk.PhysicalDevice]int
}

// Refresh enumerates all candidate devices and rebuilds the cache from
// scratch. Zero candidates is a failure, a machine without a single
// Vulkan device cannot run the canvas.
func (c *Catalog) Refresh() error {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(c.instance, &count, nil)); err != nil {
		return &EnumerationError{Query: "vk.EnumeratePhysicalDevices", Err: err}
	}
	if count == 0 {
		return &EnumerationError{Query: "vk.EnumeratePhysicalDevices"}
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(c.instance, &count, devices)); err != nil {
		return &EnumerationError{Query: "vk.EnumeratePhysicalDevices", Err: err}
	}

	records := make([]DeviceRecord, 0, len(devices))
	byHandle := make(map[vk.PhysicalDevice]int, len(devices))
	for _, dev := range devices {
		byHandle[dev] = len(records)
		records = append(records, digestDevice(dev))
	}
	c.records = records
	c.byHandle = byHandle
	return nil
}

// Records returns the cached records in enumeration order.
func (c *Catalog) Records() []DeviceRecord {
	return c.records
}

// Record looks up the cached record of a device handle.
func (c *Catalog) Record(dev vk.PhysicalDevice) (DeviceRecord, bool) {
	idx, ok := c.byHandle[dev]
	if !ok {
		return DeviceRecord{}, false
	}
	return c.records[idx], true
}

// SelectBest scores every cached candidate and returns the winner.
func (c *Catalog) SelectBest() (Selection, error) {
	selections := make([]Selection, 0, len(c.records))
	for _, rec := range c.records {
		selections = append(selections, ScoreDevice(rec, c.presentChecker(rec.Device)))
	}
	return PickBest(selections)
}

func (c *Catalog) presentChecker(dev vk.PhysicalDevice) PresentChecker {
	if c.surface == vk.NullSurface {
		return nil
	}
	surface := c.surface
	return func(family uint32) bool {
		var supported vk.Bool32
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(dev, family, surface, &supported)); err != nil {
			return false
		}
		return supported.B()
	}
}

func digestDevice(dev vk.PhysicalDevice) DeviceRecord {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(dev, &props)
	props.Deref()
	props.Limits.Deref()

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(dev, &features)
	features.Deref()

	rec := DeviceRecord{
		Device:              dev,
		Name:                vk.ToString(props.DeviceName[:]),
		VendorID:            props.VendorID,
		DeviceID:            props.DeviceID,
		DriverVersion:       props.DriverVersion,
		Class:               props.DeviceType,
		MaxImageDimension2D: props.Limits.MaxImageDimension2D,
		Features: DeviceFeatures{
			GeometryShader:    features.GeometryShader.B(),
			SamplerAnisotropy: features.SamplerAnisotropy.B(),
		},
	}

	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &familyCount, families)
	for _, family := range families {
		family.Deref()
		rec.QueueFamilies = append(rec.QueueFamilies, QueueFamily{
			Flags: family.QueueFlags,
			Count: family.QueueCount,
		})
	}

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(dev, &memoryProperties)
	memoryProperties.Deref()
	for i := uint32(0); i < memoryProperties.MemoryHeapCount; i++ {
		memoryProperties.MemoryHeaps[i].Deref()
		rec.Memory += uint64(memoryProperties.MemoryHeaps[i].Size)
	}

	var extErr, layerErr error
	rec.Extensions, extErr = deviceExtensionNames(dev)
	rec.Layers, layerErr = deviceLayerNames(dev)
	rec.Invalid = extErr != nil || layerErr != nil

	return rec
}

func deviceExtensionNames(dev vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(dev, "", &count, nil)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(dev, "", &count, props)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateDeviceExtensionProperties", Err: err}
	}

	names := make([]string, 0, len(props))
	for _, prop := range props {
		prop.Deref()
		names = append(names, vk.ToString(prop.ExtensionName[:]))
	}
	return names, nil
}

func deviceLayerNames(dev vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(dev, &count, nil)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateDeviceLayerProperties", Err: err}
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(dev, &count, props)); err != nil {
		return nil, &EnumerationError{Query: "vk.EnumerateDeviceLayerProperties", Err: err}
	}

	names := make([]string, 0, len(props))
	for _, prop := range props {
		prop.Deref()
		names = append(names, vk.ToString(prop.LayerName[:]))
	}
	return names, nil
}
