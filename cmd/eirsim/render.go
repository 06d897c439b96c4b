package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/audio/wavio"
	"github.com/cwbudde/algo-eir/config"
	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/measure/eir"
)

// Render auralizes the input file through the responses of the selected scene.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	if err := cfg.CheckFiles(); err != nil {
		return err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	sc, err := cfg.SceneValue()
	if err != nil {
		return err
	}

	in, format, err := wavio.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	logger.Noticef("read %q: %.2fs at %d Hz, %d channel(s), %d bit",
		cfg.Input, in.Duration(), format.SampleRate, format.Channels, format.BitDepth)

	strategy, err := cfg.Strategy(in.SampleRate)
	if err != nil {
		return err
	}

	var instants []float64
	if strategy.Cardinality() == eir.Multi {
		instants = engine.Instants(in)
	}

	start := time.Now()
	irs, stats, err := strategy.Build(sc, instants)
	if err != nil {
		return err
	}
	traceTime := time.Since(start)

	if err := exportResponses(cfg, irs); err != nil {
		return err
	}

	start = time.Now()
	var (
		out    auralize.Buffer
		ostats auralize.Stats
	)
	if strategy.Cardinality() == eir.Multi {
		out, ostats, err = engine.Multi(in, irs)
	} else {
		out, ostats, err = engine.Single(in, irs[0])
	}
	if err != nil {
		return err
	}
	renderTime := time.Since(start)

	var encode []wavio.EncodeOption
	if cfg.Dither {
		encode = append(encode, wavio.WithDither(cfg.Seed))
	}
	if err := wavio.WriteFile(cfg.Output, out, encode...); err != nil {
		return err
	}

	displayRunStats(cfg, sc.Name, stats, traceTime, ostats, renderTime)
	logMetrics(irs)
	logger.Noticef("wrote %q: %.2fs", cfg.Output, out.Duration())
	return nil
}

func exportResponses(cfg config.Config, irs []*eir.ImpulseResponse) (err error) {
	if cfg.Export == "" {
		return nil
	}
	f, err := os.Create(cfg.Export)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", cfg.Export, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close %q: %w", cfg.Export, cerr)
		}
	}()

	if err := eir.WriteCSV(f, irs); err != nil {
		return fmt.Errorf("export: %q: %w", cfg.Export, err)
	}
	logger.Noticef("exported responses to %q", cfg.Export)
	return nil
}
