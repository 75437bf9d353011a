// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"
	"strings"

	vk "github.com/devblok/vulkan"
	"github.com/gobuffalo/packr"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkcanvas/core"
)

// StaticResources holds the embedded glade definitions
var StaticResources packr.Box

// List store columns of the device view
const (
	columnName = iota
	columnClass
	columnScore
	columnQueues
)

func init() {
	StaticResources = packr.NewBox("./resources")
}

func buildInterface() (*gtk.Application, error) {
	app, err := gtk.ApplicationNew("org.devblok.vkinspect", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, err
	}

	app.Connect("startup", func() {
		log.Info("Application starting")
	})

	app.Connect("activate", func() {
		log.Info("Application activating")

		resource, err := StaticResources.FindString("vkinspect.glade")
		if err != nil {
			log.Fatal(err)
		}

		builder, err := gtk.BuilderNew()
		if err != nil {
			log.Fatal(err)
		}
		if err := builder.AddFromString(resource); err != nil {
			log.Fatal(err)
		}

		obj, err := builder.GetObject("mainWindow")
		if err != nil {
			log.Error(err)
		}

		var (
			ok  bool
			win *gtk.Window
		)

		if win, ok = obj.(*gtk.Window); !ok {
			log.Error(errors.New("failed to cast Object from builder to Window"))
		} else {
			win.SetDefaultSize(600, 480)

			if err := populateDeviceView(builder); err != nil {
				log.Error(err)
			}

			win.ShowAll()
			app.AddWindow(win)
		}
	})

	app.Connect("shutdown", func() {
		log.Info("Application shutting down")
	})
	return app, nil
}

// populateDeviceView runs a headless device setup and fills the device
// list with what the catalog saw.
func populateDeviceView(builder *gtk.Builder) error {
	setup, err := core.NewDeviceSetup(core.DefaultApplicationInfo, nil, core.FromEnv().Instance)
	if err != nil {
		return err
	}
	defer setup.Destroy()

	obj, err := builder.GetObject("deviceStore")
	if err != nil {
		return err
	}
	store, ok := obj.(*gtk.ListStore)
	if !ok {
		return errors.New("failed to cast Object from builder to ListStore")
	}

	for _, rec := range setup.Records() {
		sel := core.ScoreDevice(rec, nil)
		iter := store.Append()
		if err := store.Set(iter,
			[]int{columnName, columnClass, columnScore, columnQueues},
			[]interface{}{
				rec.Name,
				deviceClassName(rec),
				fmt.Sprintf("%d", sel.Score),
				queueSummary(rec),
			}); err != nil {
			return err
		}
	}
	return nil
}

func deviceClassName(rec core.DeviceRecord) string {
	switch rec.Class {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

func queueSummary(rec core.DeviceRecord) string {
	families := make([]string, len(rec.QueueFamilies))
	for i, fam := range rec.QueueFamilies {
		families[i] = fmt.Sprintf("%d:%#x", fam.Count, uint32(fam.Flags))
	}
	return strings.Join(families, " ")
}
