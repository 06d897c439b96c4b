package main

import (
	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/config"
)

func simulationFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		cli.IntFlag{
			Name:  "scene, s",
			Value: def.Scene,
			Usage: "scene id, see the scenes command",
		},
		cli.IntFlag{
			Name:  "rays, r",
			Value: def.Rays,
			Usage: "rays traced per instant",
		},
		cli.StringFlag{
			Name:  "method, m",
			Value: def.Method,
			Usage: "how moving geometry is sampled: snapshot or interpolated",
		},
		cli.StringFlag{
			Name:  "irs",
			Value: def.IRs,
			Usage: "number of responses: single or multi",
		},
		cli.StringFlag{
			Name:  "export, e",
			Usage: "write the responses to this csv file",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Value: def.Seed,
			Usage: "random seed",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Usage: "tracing goroutines, 0 for one per cpu",
		},
		cli.Float64Flag{
			Name:  "max-delay",
			Value: def.MaxDelay,
			Usage: "response length in seconds",
		},
		cli.Float64Flag{
			Name:  "bin-width",
			Usage: "histogram resolution in seconds, 0 for one sample period",
		},
		cli.Float64Flag{
			Name:  "snapshot-interval",
			Usage: "snapshot spacing in seconds, 0 for the window hop",
		},
		cli.IntFlag{
			Name:  "hop",
			Value: def.Hop,
			Usage: "analysis window spacing in samples",
		},
		cli.IntFlag{
			Name:  "crossfade",
			Value: def.Crossfade,
			Usage: "analysis window crossfade in samples",
		},
		cli.Float64Flag{
			Name:  "speed-of-sound",
			Value: def.SpeedOfSound,
			Usage: "propagation speed in m/s",
		},
		cli.IntFlag{
			Name:  "max-bounces",
			Value: def.MaxBounces,
			Usage: "reflections after which a ray is dropped",
		},
		cli.BoolFlag{
			Name:  "no-fold",
			Usage: "trace every instant of a looping scene separately",
		},
	}
}

func renderFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		cli.StringFlag{
			Name:  "input, i",
			Usage: "input wav file",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "output wav file",
		},
		cli.Float64Flag{
			Name:  "scale",
			Value: def.Scale,
			Usage: "gain applied to the rendered signal",
		},
		cli.StringFlag{
			Name:  "limiter",
			Value: def.Limiter,
			Usage: "normalize or clip output above full scale",
		},
		cli.BoolFlag{
			Name:  "dither",
			Usage: "add triangular dither before 16-bit quantization",
		},
	}
}

func analyzeFlags() []cli.Flag {
	return []cli.Flag{
		cli.Float64Flag{
			Name:  "duration",
			Value: 1,
			Usage: "simulated seconds covered by multi responses",
		},
		cli.Float64Flag{
			Name:  "rate",
			Value: 44100,
			Usage: "sample rate that sets the default bin width and window hop",
		},
	}
}

// configFromContext collects the command flags into a validated Config.
func configFromContext(ctx *cli.Context) (config.Config, error) {
	c := config.Default()
	c.Scene = ctx.Int("scene")
	c.Rays = ctx.Int("rays")
	c.Method = ctx.String("method")
	c.IRs = ctx.String("irs")
	c.Export = ctx.String("export")
	c.Seed = ctx.Uint64("seed")
	c.Workers = ctx.Int("workers")
	c.MaxDelay = ctx.Float64("max-delay")
	c.BinWidth = ctx.Float64("bin-width")
	c.SnapshotInterval = ctx.Float64("snapshot-interval")
	c.Hop = ctx.Int("hop")
	c.Crossfade = ctx.Int("crossfade")
	c.SpeedOfSound = ctx.Float64("speed-of-sound")
	c.MaxBounces = ctx.Int("max-bounces")
	c.FoldLoops = !ctx.Bool("no-fold")
	c.Dither = ctx.Bool("dither")
	c.Input = ctx.String("input")
	c.Output = ctx.String("output")
	// scale and limiter only exist on render
	if ctx.IsSet("scale") {
		c.Scale = ctx.Float64("scale")
	}
	if ctx.IsSet("limiter") {
		c.Limiter = ctx.String("limiter")
	}
	return c, c.Validate()
}
