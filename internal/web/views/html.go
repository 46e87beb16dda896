// Package views renders the HTML pages as templ components.
package views

import (
	"context"
	"io"
	"regexp"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) attr(name, value string) {
	w.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (w *writer) href(url string) {
	w.attr("href", string(templ.URL(url)))
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3}([0-9A-Fa-f]{3})?$`)

// background sets an inline background color. Anything but a hex color is
// dropped so no caller can inject CSS.
func (w *writer) background(color string) {
	if !hexColor.MatchString(color) {
		return
	}
	w.attr("style", "background-color: "+color)
}

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// component adapts a markup function to templ.Component.
func component(fn func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		fn(ctx, w)
		return w.err
	})
}
