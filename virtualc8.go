/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andreas-jonsson/virtualc8/emulator"
	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/andreas-jonsson/virtualc8/version"
)

var (
	noAudio,
	fullscreen,
	ver bool
)

var windowScale = 10

func init() {
	flag.BoolVar(&ver, "v", false, "Print version information")
	flag.BoolVar(&noAudio, "no-audio", false, "Disable audio")
	flag.BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")
	flag.IntVar(&windowScale, "scale", windowScale, "Window size in host pixels per CHIP-8 pixel")

	flag.Bool("text", false, "Run in the terminal")
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: virtualc8 [options] <program image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	configs := []platform.Config{
		platform.ConfigWithWindowSize(platform.ScreenWidth*windowScale, platform.ScreenHeight*windowScale),
	}
	if !noAudio {
		configs = append(configs, platform.ConfigWithAudio)
	}
	if fullscreen {
		configs = append(configs, platform.ConfigWithFullscreen)
	}

	printLogo()
	platform.Start(emulator.Start, configs...)
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────\n")
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗      ██████╗ █████╗ 
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║     ██╔════╝██╔══██╗
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║     ██║     ╚█████╔╝
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║     ██║     ██╔══██╗
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║███████╗╚██████╗╚█████╔╝
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚════╝ `
