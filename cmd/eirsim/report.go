package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/cwbudde/algo-eir/config"
	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/measure/eir"
	"github.com/cwbudde/algo-eir/sim/trace"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func traceRows(table *tablewriter.Table, cfg config.Config, name string, stats trace.Stats) {
	table.Append([]string{"scene", fmt.Sprintf("%d (%s)", cfg.Scene, name)})
	table.Append([]string{"method", cfg.Method + " / " + cfg.IRs})
	table.Append([]string{"rays", fmt.Sprintf("%d", stats.Rays)})
	table.Append([]string{"hits", fmt.Sprintf("%d", stats.Hits)})
	table.Append([]string{"bounces", fmt.Sprintf("%d", stats.Bounces)})
	table.Append([]string{"escaped / absorbed / expired", fmt.Sprintf("%d / %d / %d", stats.Escaped, stats.Absorbed, stats.Expired)})
	if stats.NonConverged > 0 || stats.Degenerate > 0 {
		table.Append([]string{"non-converged / degenerate", fmt.Sprintf("%d / %d", stats.NonConverged, stats.Degenerate)})
	}
}

func displayTraceStats(cfg config.Config, name string, stats trace.Stats) {
	var buf bytes.Buffer
	table := newTable(&buf, "Trace", "Value")
	traceRows(table, cfg, name, stats)
	table.Render()
	logger.Noticef("trace statistics\n%s", buf.String())
}

func displayRunStats(cfg config.Config, name string, stats trace.Stats, traceTime time.Duration, out auralize.Stats, renderTime time.Duration) {
	var buf bytes.Buffer
	table := newTable(&buf, "Run", "Value")
	traceRows(table, cfg, name, stats)
	table.Append([]string{"trace time", traceTime.Round(time.Millisecond).String()})
	table.Append([]string{"windows", fmt.Sprintf("%d", out.Windows)})
	table.Append([]string{"gain", fmt.Sprintf("%.4g", out.Gain)})
	table.Append([]string{"peak / rms", fmt.Sprintf("%.3f / %.3f", out.Peak, out.RMS)})
	table.Append([]string{"clipped samples", fmt.Sprintf("%d", out.Clipped)})
	table.SetFooter([]string{"RENDER TIME", renderTime.Round(time.Millisecond).String()})
	table.Render()
	logger.Noticef("run statistics\n%s", buf.String())
}

// logMetrics renders the metrics table and logs it as one record.
func logMetrics(irs []*eir.ImpulseResponse) {
	var buf bytes.Buffer
	displayMetrics(&buf, irs)
	logger.Noticef("response metrics\n%s", buf.String())
}

// displayMetrics writes one row per distinct response.
func displayMetrics(w io.Writer, irs []*eir.ImpulseResponse) {
	table := newTable(w, "Instant (s)", "Direct (ms)", "Energy", "EDT (s)", "T30 (s)", "C50 (dB)", "C80 (dB)", "D50", "Ts (ms)")
	var prev *eir.ImpulseResponse
	for _, ir := range irs {
		if ir == prev {
			continue
		}
		prev = ir

		m, err := eir.Analyze(ir)
		if err != nil {
			table.Append([]string{fmt.Sprintf("%.3f", ir.Time), "-", "0", "-", "-", "-", "-", "-", "-"})
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%.3f", ir.Time),
			fmt.Sprintf("%.2f", m.DirectArrival*1e3),
			fmt.Sprintf("%.4f", m.Total),
			seconds(m.EDT),
			seconds(m.T30),
			decibels(m.C50),
			decibels(m.C80),
			fmt.Sprintf("%.2f", m.D50),
			fmt.Sprintf("%.1f", m.CenterTime*1e3),
		})
	}
	table.Render()
}

func seconds(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func decibels(v float64) string {
	if math.IsInf(v, 0) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", v)
}
