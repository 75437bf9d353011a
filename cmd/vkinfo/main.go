// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// vkinfo dumps the physical device catalog as JSON. It runs headless,
// no window system is brought up and presentation support is not
// required of any device.
package main

import (
	"encoding/json"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkcanvas/core"
)

var (
	debug  = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	pretty = flag.Bool("pretty", false, "Indent the JSON output")
)

func main() {
	flag.Parse()

	cfg := core.FromEnv().Instance
	cfg.DebugMode = cfg.DebugMode || *debug

	setup, err := core.NewDeviceSetup(core.DefaultApplicationInfo, nil, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer setup.Destroy()

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(setup.Records()); err != nil {
		log.Fatal(err)
	}
}
