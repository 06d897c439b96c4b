package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/cwbudde/algo-eir/sim/scene"
)

// ListScenes prints the scene catalog.
func ListScenes(ctx *cli.Context) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Id", "Name", "Loops", "Description"})
	for _, e := range scene.Entries() {
		sc, err := scene.Catalog(e.ID)
		if err != nil {
			return err
		}
		loops := "-"
		if p, ok := sc.LoopPeriod(); ok {
			loops = strconv.FormatFloat(p, 'g', 4, 64) + " s"
		}
		table.Append([]string{strconv.Itoa(e.ID), e.Name, loops, e.Description})
	}
	table.Render()
	return nil
}
