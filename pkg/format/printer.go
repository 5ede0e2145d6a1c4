package format

import (
	"bytes"
	"strings"
)

const indentSize = 2

// Printer accumulates formatted SQL with indentation tracking.
// In compact mode line breaks collapse to single spaces.
type Printer struct {
	output      *bytes.Buffer
	compact     bool
	depth       int
	atLineStart bool
}

func newPrinter(compact bool) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		compact:     compact,
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), " \n")
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	if p.compact {
		p.output.WriteByte(' ')
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	if !p.compact {
		for i := 0; i < p.depth*indentSize; i++ {
			p.output.WriteByte(' ')
		}
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// formatList prints count items with separators, optionally one per line.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			} else {
				p.space()
			}
		}
	}
}
