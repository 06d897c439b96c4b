package main

import (
	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/internal/log"
)

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
