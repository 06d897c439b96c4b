// Command eirsim traces time-variant energetic impulse responses of moving
// acoustic scenes and auralizes audio through them.
//
// Usage:
//
//	eirsim [-v|-vv] render -i in.wav -o out.wav [flags]
//	eirsim [-v|-vv] analyze [flags]
//	eirsim scenes
//
// Examples:
//
//	eirsim render -i speech.wav -o hall.wav --scene 2 --method interpolated --irs multi
//	eirsim analyze --scene 4 --duration 2 --export room.csv
package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/internal/log"
)

var logger = log.New("eirsim")

func newApp() *cli.App {
	// the default "version, v" flag would clash with -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "eirsim"
	app.Usage = "simulate time-variant room acoustics with moving geometry"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "auralize a wav file through the responses of a scene",
			Description: `
Trace the selected scene, build one response (single) or one response per
analysis window (multi) and convolve the input with them. The result is scaled,
limited to full scale and written as 16-bit mono.`,
			Flags:  append(simulationFlags(), renderFlags()...),
			Action: Render,
		},
		{
			Name:  "analyze",
			Usage: "build responses without audio and print room acoustic metrics",
			Description: `
Trace the selected scene at evenly spaced instants over the given duration and
report decay times, clarity and definition per response.`,
			Flags:  append(simulationFlags(), analyzeFlags()...),
			Action: Analyze,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
