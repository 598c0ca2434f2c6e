package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/width"
)

const (
	arrow     = "->"
	downArrow = "↓"
)

// Printer writes "word -> translation" lines
type Printer struct {
	out     io.Writer
	concise bool

	// Columns is the terminal width, 0 when unknown
	Columns int

	word        *color.Color
	arrow       *color.Color
	translation *color.Color
}

// NewPrinter creates a printer for out. Terminal detection and width only
// apply when out is a terminal file.
func NewPrinter(out io.Writer, mode ColorMode, concise bool) *Printer {
	isTerminal := false
	columns := 0
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		isTerminal = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			columns = w
		}
	}

	p := &Printer{
		out:         out,
		concise:     concise,
		Columns:     columns,
		word:        color.New(color.FgBlue),
		arrow:       color.New(color.FgWhite),
		translation: color.New(color.FgGreen),
	}

	for _, c := range []*color.Color{p.word, p.arrow, p.translation} {
		if mode.Enabled(isTerminal) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Print writes one translated word
func (p *Printer) Print(word, translated string) error {
	if p.concise {
		_, err := fmt.Fprintln(p.out, p.translation.Sprint(translated))
		return err
	}

	sep := " "
	arrowText := arrow
	if p.wraps(word, translated) {
		sep = "\n"
		arrowText = downArrow
	}

	_, err := fmt.Fprint(p.out,
		p.word.Sprint(word), sep,
		p.arrow.Sprint(arrowText), sep,
		p.translation.Sprint(translated), "\n")
	return err
}

// wraps reports whether the pair needs the stacked layout
func (p *Printer) wraps(word, translated string) bool {
	if strings.Contains(translated, "\n") {
		return true
	}
	if p.Columns <= 0 {
		return false
	}
	return DisplayWidth(word)+len(arrow)+2+DisplayWidth(translated) > p.Columns
}

// DisplayWidth returns the number of terminal cells s occupies. East Asian
// wide and fullwidth runes take two cells.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
