// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device is the SDL2 windowing collaborator of the setup
// pipeline. It supplies the instance extensions presentation needs,
// creates presentable surfaces from windows and mints hidden probe
// windows for device capability testing. The Vulkan runtime itself never
// creates windows, that is this package's job.
package device

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkcanvas/core"
)

// Init brings up the SDL subsystems and the Vulkan library. Call Quit
// when done.
func Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	return sdl.VulkanLoadLibrary("")
}

// Quit unloads the Vulkan library and tears SDL down.
func Quit() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}

// NewWindow creates a visible Vulkan-capable window.
func NewWindow(title string, width, height int32) (*Window, error) {
	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width, height,
		sdl.WINDOW_VULKAN)
	if err != nil {
		return nil, err
	}
	return &Window{win: win}, nil
}

// Window wraps an SDL window and implements core.WindowSystem.
type Window struct {
	win *sdl.Window
}

// InstanceExtensions implements core.WindowSystem
func (w *Window) InstanceExtensions() []string {
	return w.win.VulkanGetInstanceExtensions()
}

// ProcAddr implements core.WindowSystem
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// CreateProbe implements core.WindowSystem. The probe window is hidden
// and exists only long enough to answer surface-support queries.
func (w *Window) CreateProbe() (core.Probe, error) {
	win, err := sdl.CreateWindow("probe",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		100, 100,
		sdl.WINDOW_VULKAN|sdl.WINDOW_HIDDEN)
	if err != nil {
		return nil, err
	}
	return &probe{win: win}, nil
}

// CreateSurface creates the presentable surface for this window. The
// caller owns it and must destroy it against the same instance.
func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	return createSurface(w.win, instance)
}

// Size returns the current drawable dimensions.
func (w *Window) Size() (int32, int32) {
	return w.win.GetSize()
}

// Destroy destroys the underlying window.
func (w *Window) Destroy() {
	w.win.Destroy()
}

type probe struct {
	win *sdl.Window
}

func (p *probe) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	return createSurface(p.win, instance)
}

func (p *probe) Destroy() {
	p.win.Destroy()
}

func createSurface(win *sdl.Window, instance vk.Instance) (vk.Surface, error) {
	srf, err := win.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, err
	}
	return vk.SurfaceFromPointer(uintptr(srf)), nil
}
