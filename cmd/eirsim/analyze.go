package main

import (
	"errors"
	"math"

	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/measure/eir"
)

// Analyze builds responses without audio and prints their metrics.
func Analyze(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	duration, rate := ctx.Float64("duration"), ctx.Float64("rate")
	if !(duration > 0) || math.IsInf(duration, 0) {
		return errors.New("analyze: duration must be positive")
	}

	sc, err := cfg.SceneValue()
	if err != nil {
		return err
	}
	strategy, err := cfg.Strategy(rate)
	if err != nil {
		return err
	}

	var instants []float64
	if strategy.Cardinality() == eir.Multi {
		step := float64(cfg.Hop) / rate
		for t := 0.0; t < duration; t += step {
			instants = append(instants, t)
		}
	}

	irs, stats, err := strategy.Build(sc, instants)
	if err != nil {
		return err
	}
	if err := exportResponses(cfg, irs); err != nil {
		return err
	}

	displayTraceStats(cfg, sc.Name, stats)
	displayMetrics(ctx.App.Writer, irs)
	return nil
}
