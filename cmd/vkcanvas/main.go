// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkcanvas/core"
	"github.com/devblok/vkcanvas/device"
	"github.com/devblok/vkcanvas/gfx"
	"github.com/devblok/vkcanvas/utility/capture"
)

func init() {
	runtime.LockOSThread()
}

// Profiling and debugging
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
	debug        = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	captureFile  = flag.String("capture", "", "Write rendered frames into a capture archive")
)

const (
	canvasWidth  = 800
	canvasHeight = 600
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	configuration := core.FromEnv()
	if *debug {
		configuration.Instance.DebugMode = true
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	if err := device.Init(); err != nil {
		log.Fatal(err)
	}
	defer device.Quit()

	window, err := device.NewWindow("vkcanvas", canvasWidth, canvasHeight)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Destroy()

	setup, err := core.NewDeviceSetup(core.DefaultApplicationInfo, window, configuration.Instance)
	if err != nil {
		log.Fatal(err)
	}
	defer setup.Destroy()

	selection := setup.Selection()
	log.WithFields(log.Fields{
		"device": selection.DeviceName,
		"score":  selection.Score,
	}).Info("device initialised")

	var builder *capture.Builder
	if *captureFile != "" {
		builder = capture.NewBuilder(capture.Header{
			Author:      "vkcanvas",
			DateCreated: time.Now().Unix(),
			Version:     1,
			Width:       canvasWidth,
			Height:      canvasHeight,
			Format:      "rgba8",
		})
	}

	timeService := core.NewTime(configuration.Time)
	defer timeService.Stop()

	var frame int64
EventLoop:
	for {
		select {
		case <-timeService.FpsTicker().C:
			buf := renderFrame(frame)
			if builder != nil {
				if err := builder.Add(frame, buf.Bytes()); err != nil {
					log.WithError(err).Error("frame not captured")
				}
			}
			frame++
		case <-timeService.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						break EventLoop
					}
				case *sdl.QuitEvent:
					break EventLoop
				}
			}
		}
	}

	if builder != nil {
		f, err := os.Create(*captureFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if _, err := builder.WriteTo(f); err != nil {
			log.Fatal(err)
		}
		log.WithField("file", *captureFile).Info("capture written")
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
	}
}

// renderFrame draws a moving diagonal pattern. Stands in for the
// pipeline output until the swapchain path lands.
func renderFrame(frame int64) *gfx.TextureBuffer {
	buf := gfx.NewTextureBuffer(canvasWidth, canvasHeight)
	offset := int(frame) % canvasWidth
	for r := 0; r < canvasHeight; r++ {
		c := (r + offset) % canvasWidth
		buf.SetRed(c, r)
		buf.SetGreen((c+canvasWidth/3)%canvasWidth, r)
		buf.SetBlue((c+2*canvasWidth/3)%canvasWidth, r)
	}
	return buf
}
