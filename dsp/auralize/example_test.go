package auralize_test

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/measure/eir"
)

func ExampleSchedule() {
	windows, err := auralize.Schedule(10, 4, 2)
	if err != nil {
		panic(err)
	}
	for _, w := range windows {
		fmt.Printf("window %d: start %d len %d ramps %d/%d\n", w.Index, w.Start, w.Len, w.RampIn, w.RampOut)
	}

	// Output:
	// window 0: start 0 len 6 ramps 0/2
	// window 1: start 4 len 6 ramps 2/2
	// window 2: start 8 len 2 ramps 2/0
}

func ExampleEngine_Single() {
	opts := auralize.DefaultOptions()
	opts.Scale = 1
	eng, err := auralize.New(opts)
	if err != nil {
		panic(err)
	}

	// A direct sound and one reflection two samples later.
	ir := &eir.ImpulseResponse{BinWidth: 1.0 / 8000, Energy: []float64{0.25, 0, 0.0625}}
	in := auralize.Buffer{Samples: []float64{1, 0, 0, 0}, SampleRate: 8000}

	out, stats, err := eng.Single(in, ir)
	if err != nil {
		panic(err)
	}
	mags := make([]string, out.Len())
	for i, v := range out.Samples {
		mags[i] = fmt.Sprintf("%.2f", math.Abs(v))
	}
	fmt.Println(strings.Join(mags, " "))
	fmt.Printf("peak %.2f\n", stats.Peak)

	// Output:
	// 0.50 0.00 0.25 0.00 0.00 0.00
	// peak 0.50
}
