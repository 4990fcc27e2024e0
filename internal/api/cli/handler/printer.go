package handler

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// output writes localized text for the visitor.
type output struct {
	w io.Writer
	p *message.Printer
}

func newOutput(w io.Writer) output {
	return output{w: w, p: message.NewPrinter(language.English)}
}

func (o output) printf(format string, args ...any) {
	o.p.Fprintf(o.w, format, args...)
}

func (o output) println(s string) {
	o.p.Fprintln(o.w, s)
}
