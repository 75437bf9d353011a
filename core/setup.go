// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkcanvas/utility/scoped"
)

const (
	validationLayerName      = "VK_LAYER_KHRONOS_validation"
	debugReportExtensionName = "VK_EXT_debug_report"
)

// DefaultApplicationInfo describes the canvas application to the runtime.
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(0, 0, 1),
	PApplicationName:   safeString("VkCanvas"),
	PEngineName:        safeString("VkCanvas"),
}

// WindowSystem is the windowing collaborator of the setup pipeline. The
// pipeline never creates user-visible windows itself, it only asks the
// window system for presentation requirements and for a throwaway probe.
type WindowSystem interface {
	// InstanceExtensions lists the instance extensions the window system
	// needs for presentation support.
	InstanceExtensions() []string

	// ProcAddr returns the window system loader's vkGetInstanceProcAddr,
	// or nil to use the default loader.
	ProcAddr() unsafe.Pointer

	// CreateProbe creates a hidden window used solely for device
	// capability testing during selection.
	CreateProbe() (Probe, error)
}

// Probe is a throwaway hidden window that can mint a surface for
// capability queries. The caller destroys it right after selection.
type Probe interface {
	CreateSurface(vk.Instance) (vk.Surface, error)
	Destroy()
}

// DeviceSetup owns the chain of native resources acquired during
// initialisation: instance, optional debug report hook, selected physical
// device and the logical device with its graphics queue.
//
// Field order matches acquisition order. Destroy walks it backwards, so a
// resource is never torn down before something created against it.
type DeviceSetup struct {
	cfg InstanceConfiguration

	// BEGIN STRICT_ORDERING
	instance       scoped.Resource[vk.Instance, scoped.None]
	debugCallback  scoped.Resource[vk.DebugReportCallback, vk.Instance]
	physicalDevice vk.PhysicalDevice // destroyed with the instance
	device         scoped.Resource[vk.Device, scoped.None]
	graphicsQueue  vk.Queue // destroyed with the device
	// END STRICT_ORDERING

	selection Selection
	catalog   *Catalog
}

// NewDeviceSetup runs the full initialisation sequence:
// instance, debug hook when cfg.DebugMode is set, physical device
// selection against a probe surface, logical device. Stages never retry;
// the first failure unwinds everything acquired so far and is returned as
// a typed error.
//
// ws may be nil for headless use: no window-system extensions are
// requested and selection skips the presentation requirement.
func NewDeviceSetup(appInfo *vk.ApplicationInfo, ws WindowSystem, cfg InstanceConfiguration) (*DeviceSetup, error) {
	s := &DeviceSetup{
		cfg:      cfg,
		instance: scoped.New(func(instance vk.Instance) { vk.DestroyInstance(instance, nil) }),
		device:   scoped.New(func(device vk.Device) { vk.DestroyDevice(device, nil) }),
	}

	if err := s.createInstance(appInfo, ws); err != nil {
		s.Destroy()
		return nil, err
	}
	if cfg.DebugMode {
		if err := s.createDebugCallback(); err != nil {
			s.Destroy()
			return nil, err
		}
	}
	if err := s.selectPhysicalDevice(ws); err != nil {
		s.Destroy()
		return nil, err
	}
	if err := s.createLogicalDevice(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *DeviceSetup) createInstance(appInfo *vk.ApplicationInfo, ws WindowSystem) error {
	var proc unsafe.Pointer
	if ws != nil {
		proc = ws.ProcAddr()
	}
	if proc != nil {
		vk.SetGetInstanceProcAddr(proc)
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return &CreationError{Call: "vk.SetDefaultGetInstanceProcAddr", Err: err}
	}
	if err := vk.Init(); err != nil {
		return &CreationError{Call: "vk.Init", Err: err}
	}

	var extensions []string
	if ws != nil {
		extensions = append(extensions, ws.InstanceExtensions()...)
	}
	extensions = append(extensions, s.cfg.Extensions...)

	layers := append([]string{}, s.cfg.Layers...)
	if s.cfg.DebugMode {
		layers = append(layers, validationLayerName)
		extensions = append(extensions, debugReportExtensionName)
	}

	// Pre-flight every requested layer before any native create call.
	if len(layers) > 0 {
		layerEnum := NewLayerEnumerator()
		if err := layerEnum.UpdateCache(); err != nil {
			return err
		}
		for _, layer := range layers {
			if !layerEnum.Has(layer) {
				return &UnsupportedCapabilityError{Kind: "layer", Name: layer}
			}
		}
	}
	if s.cfg.DebugMode {
		extEnum := NewExtensionEnumerator()
		if err := extEnum.UpdateCache(); err != nil {
			return err
		}
		if !extEnum.Has(debugReportExtensionName) {
			return &UnsupportedCapabilityError{Kind: "extension", Name: debugReportExtensionName}
		}
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return &CreationError{Call: "vk.CreateInstance", Err: err}
	}
	vk.InitInstance(instance)
	s.instance.TakeOwnership(instance)

	log.WithFields(log.Fields{
		"extensions": extensions,
		"layers":     layers,
	}).Debug("vulkan instance created")
	return nil
}

func (s *DeviceSetup) createDebugCallback() error {
	dci := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit |
			vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit |
			vk.DebugReportInformationBit |
			vk.DebugReportDebugBit),
		PfnCallback: debugReportCallback,
	}

	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(s.instance.Get(), &dci, nil, &callback)); err != nil {
		return &CreationError{Call: "vk.CreateDebugReportCallback", Err: err}
	}
	s.debugCallback = scoped.AdoptWithContext(callback, s.instance.Get(),
		func(callback vk.DebugReportCallback, instance vk.Instance) {
			vk.DestroyDebugReportCallback(instance, callback, nil)
		})
	return nil
}

func (s *DeviceSetup) selectPhysicalDevice(ws WindowSystem) error {
	surface := vk.NullSurface

	if ws != nil {
		probe, err := ws.CreateProbe()
		if err != nil {
			return &CreationError{Call: "WindowSystem.CreateProbe", Err: err}
		}
		defer probe.Destroy()

		probeSurface, err := scoped.MakeWithContext(s.instance.Get(),
			func(surface vk.Surface, instance vk.Instance) {
				vk.DestroySurface(instance, surface, nil)
			},
			func() (vk.Surface, error) {
				return probe.CreateSurface(s.instance.Get())
			})
		if err != nil {
			return &CreationError{Call: "Probe.CreateSurface", Err: err}
		}
		defer probeSurface.Release()
		surface = probeSurface.Get()

		return s.runSelection(surface)
	}
	return s.runSelection(surface)
}

func (s *DeviceSetup) runSelection(surface vk.Surface) error {
	catalog := NewCatalog(s.instance.Get(), surface)
	if err := catalog.Refresh(); err != nil {
		return err
	}
	selection, err := catalog.SelectBest()
	if err != nil {
		return err
	}

	s.catalog = catalog
	s.selection = selection
	s.physicalDevice = selection.Device

	log.WithFields(log.Fields{
		"device": selection.DeviceName,
		"score":  selection.Score,
	}).Info("physical device selected")
	return nil
}

func (s *DeviceSetup) createLogicalDevice() error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: *s.selection.GraphicsFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	// Device layers are deprecated, but runtimes predating that still
	// expect the instance layers repeated here.
	layers := append([]string{}, s.cfg.Layers...)
	if s.cfg.DebugMode {
		layers = append(layers, validationLayerName)
	}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		EnabledExtensionCount:   uint32(len(s.cfg.DeviceExtensions)),
		PpEnabledExtensionNames: safeStrings(s.cfg.DeviceExtensions),
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(s.physicalDevice, &dci, nil, &device)); err != nil {
		return &CreationError{Call: "vk.CreateDevice", Err: err}
	}
	s.device.TakeOwnership(device)

	var queue vk.Queue
	vk.GetDeviceQueue(s.device.Get(), *s.selection.GraphicsFamily, 0, &queue)
	s.graphicsQueue = queue

	log.WithField("queueFamily", *s.selection.GraphicsFamily).Debug("logical device created")
	return nil
}

// Instance returns the owned instance handle.
func (s *DeviceSetup) Instance() vk.Instance {
	return s.instance.Get()
}

// PhysicalDevice returns the selected physical device. It is a value
// handle owned by the instance and needs no separate teardown.
func (s *DeviceSetup) PhysicalDevice() vk.PhysicalDevice {
	return s.physicalDevice
}

// Device returns the owned logical device handle.
func (s *DeviceSetup) Device() vk.Device {
	return s.device.Get()
}

// GraphicsQueue returns the single queue requested on the resolved
// graphics family.
func (s *DeviceSetup) GraphicsQueue() vk.Queue {
	return s.graphicsQueue
}

// Selection returns the winning selection of the device scoring pass.
func (s *DeviceSetup) Selection() Selection {
	return s.selection
}

// Records returns the device records cached during selection.
func (s *DeviceSetup) Records() []DeviceRecord {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Records()
}

// Destroy releases all owned resources in reverse acquisition order. It
// is safe to call on a partially initialised setup and more than once.
func (s *DeviceSetup) Destroy() {
	s.device.Release()
	s.debugCallback.Release()
	s.instance.Release()
}

// debugReportCallback forwards native diagnostics through the logger. It
// only observes, failures must never propagate back into the runtime.
func debugReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint, location uint, messageCode int32,
	layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {

	entry := log.WithFields(log.Fields{
		"layer": layerPrefix,
		"code":  messageCode,
	})
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		entry.Error(message)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		entry.Warn(message)
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
	return vk.Bool32(vk.False)
}
