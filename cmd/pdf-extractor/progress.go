package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// pageProgress shows a spinner while the document opens and switches to a
// page progress bar once the page count is known.
type pageProgress struct {
	w       io.Writer
	spinner *spinner.Spinner
	bar     *progressbar.ProgressBar
}

func newPageProgress(w io.Writer) *pageProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " Opening document"
	s.Start()

	return &pageProgress{w: w, spinner: s}
}

// Update matches extract.Options.OnPage.
func (p *pageProgress) Update(done, total int) {
	if p.bar == nil {
		p.spinner.Stop()
		p.bar = newPageBar(p.w, total)
	}
	_ = p.bar.Set(done)
}

// Finish stops whichever indicator is active.
func (p *pageProgress) Finish() {
	if p.bar == nil {
		p.spinner.Stop()
		return
	}
	_ = p.bar.Finish()
}

func newPageBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
