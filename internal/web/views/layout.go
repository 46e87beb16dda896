package views

import (
	"context"

	"github.com/a-h/templ"
)

// Toast is a transient notification rendered at the top of a page.
type Toast struct {
	Level   string
	Message string
}

// Viewer describes the signed-in state shown in the navigation bar.
type Viewer struct {
	SignedIn bool
	UserID   string
}

// Layout wraps body in the document shell.
func Layout(title string, viewer Viewer, toasts []Toast, body templ.Component) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(` | Companions</title></head><body>`)

		w.raw(`<nav class="navbar"><a href="/" class="logo">Companions</a><ul>`)
		w.raw(`<li><a href="/">Home</a></li><li><a href="/companions">Companions</a></li>`)
		w.raw(`<li><a href="/my-journey">My Journey</a></li></ul>`)
		if viewer.SignedIn {
			w.raw(`<span class="user-badge">Signed in</span>`)
		} else {
			w.raw(`<a href="/sign-in" class="btn-signin">Sign in</a>`)
		}
		w.raw(`</nav>`)

		if len(toasts) > 0 {
			w.raw(`<div class="toasts">`)
			for _, t := range toasts {
				w.raw(`<div role="alert"`)
				w.attr("class", "toast toast-"+t.Level)
				w.raw(`>`)
				w.text(t.Message)
				w.raw(`</div>`)
			}
			w.raw(`</div>`)
		}

		w.raw(`<main>`)
		w.render(ctx, body)
		w.raw(`</main></body></html>`)
	})
}
