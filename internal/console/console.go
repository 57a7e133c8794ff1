// Package console prints the operator facing messages of the server: the
// startup banner, the shutdown notice and startup diagnostics. Messages are
// localized and optionally colored.
package console

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(Supported)
)

// Printer writes localized console messages to an io.Writer.
type Printer struct {
	w    io.Writer
	tag  language.Tag
	msgs *message.Printer

	accent *color.Color
	warn   *color.Color
	fail   *color.Color
}

// New returns a Printer for the best supported match of lang. Unknown or
// empty languages fall back to English.
func New(w io.Writer, lang string, colored bool) *Printer {
	tag := Match(lang)
	p := &Printer{
		w:      w,
		tag:    tag,
		msgs:   message.NewPrinter(tag, message.Catalog(cat)),
		accent: color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.accent, p.warn, p.fail} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	_, idx, conf := matcher.Match(language.Make(lang))
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}

// Language returns the language messages are printed in.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// Banner announces the served directory and URL.
func (p *Printer) Banner(root, url string) {
	p.line(nil, p.msgs.Sprintf(keyServing, root))
	p.line(p.accent, p.msgs.Sprintf(keyRunning, url))
	p.line(nil, p.msgs.Sprintf(keyStopHint))
}

// Shutdown announces a clean stop.
func (p *Printer) Shutdown() {
	p.line(p.warn, p.msgs.Sprintf(keyShutdown))
}

// PortInUse explains that port is taken. The port is printed without
// locale digit grouping.
func (p *Printer) PortInUse(port int) {
	p.line(p.fail, p.msgs.Sprintf(keyPortInUse, strconv.Itoa(port)))
	p.line(nil, p.msgs.Sprintf(keyPortHint))
}

// StartupFailed reports any other startup error.
func (p *Printer) StartupFailed(err error) {
	p.line(p.fail, p.msgs.Sprintf(keyStartFailed, err.Error()))
}

func (p *Printer) line(c *color.Color, s string) {
	if c == nil {
		_, _ = io.WriteString(p.w, s+"\n")
		return
	}
	_, _ = c.Fprintln(p.w, s)
}
