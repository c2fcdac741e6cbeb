package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// barReporter renders ingestion progress as a terminal progress bar.
type barReporter struct {
	writer      io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func newBarReporter(writer io.Writer, description string) *barReporter {
	return &barReporter{writer: writer, description: description}
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionSetDescription(color.BlueString(r.description)),
		progressbar.OptionSetItsString("articles"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Increment is safe to call from worker goroutines; the bar serializes
// its own updates.
func (r *barReporter) Increment(delta int) {
	if r.bar == nil {
		return
	}
	_ = r.bar.Add(delta)
}

func (r *barReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	fmt.Fprintln(r.writer)
}
