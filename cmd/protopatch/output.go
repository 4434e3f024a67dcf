package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/reoring/protopatch"
)

type printer struct {
	w     io.Writer
	good  *color.Color
	bad   *color.Color
	note  *color.Color
	title *color.Color
}

// newPrinter colors output when mode is "always", or when it is "auto" and
// w is a terminal.
func newPrinter(w io.Writer, mode string) *printer {
	p := &printer{
		w:     w,
		good:  color.New(color.FgGreen),
		bad:   color.New(color.FgRed),
		note:  color.New(color.FgYellow),
		title: color.New(color.Bold),
	}
	enable := mode == "always"
	if mode == "auto" {
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			enable = true
		}
	}
	for _, c := range []*color.Color{p.good, p.bad, p.note, p.title} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(format string, args ...any) { fmt.Fprintf(p.w, format, args...) }

func (p *printer) issue(it protopatch.Issue) {
	where := it.Path
	if it.Source != "" {
		where = it.Source + "#" + it.Path
	}
	p.printf("%s %s %s: %s\n", p.bad.Sprint("✗"), where, p.note.Sprint(it.Code), it.Message)
}

func (p *printer) ok(format string, args ...any) {
	p.printf("%s %s\n", p.good.Sprint("✓"), fmt.Sprintf(format, args...))
}

func (p *printer) heading(format string, args ...any) {
	p.printf("%s\n", p.title.Sprintf(format, args...))
}

// diff prints a line diff of two record dumps.
func (p *printer) diff(before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				p.printf("%s\n", p.good.Sprint("+ "+line))
			case diffmatchpatch.DiffDelete:
				p.printf("%s\n", p.bad.Sprint("- "+line))
			default:
				p.printf("  %s\n", line)
			}
		}
	}
}
