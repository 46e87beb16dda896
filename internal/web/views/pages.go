package views

import (
	"context"
	"net/url"
	"strconv"

	"companion-app/frontend/internal/models"

	"github.com/a-h/templ"
)

// HomeData feeds the home page.
type HomeData struct {
	Popular []models.Companion
	Recent  []models.Companion
	ColorOf ColorFunc
}

// HomePage shows popular companions, recent sessions and the call to action.
func HomePage(d HomeData) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Popular Companions</h1><section class="home-section">`)
		for _, c := range d.Popular {
			w.render(ctx, CompanionCard(c, d.ColorOf(c.Subject), "/"))
		}
		w.raw(`</section><section class="home-section">`)
		w.render(ctx, CompanionsList("Recently completed sessions", d.Recent, d.ColorOf))
		w.render(ctx, CTA())
		w.raw(`</section>`)
	})
}

// LibraryData feeds the companion library page.
type LibraryData struct {
	Companions []models.Companion
	Params     models.ListCompanionsParams
	Subjects   []string
	ColorOf    ColorFunc
	// HasNext is true when the page came back full.
	HasNext bool
}

func libraryURL(p models.ListCompanionsParams, page int) string {
	q := url.Values{}
	if p.Subject != "" {
		q.Set("subject", p.Subject)
	}
	if p.Topic != "" {
		q.Set("topic", p.Topic)
	}
	q.Set("page", strconv.Itoa(page))
	return "/companions?" + q.Encode()
}

// LibraryPage shows the searchable companion catalog.
func LibraryPage(d LibraryData) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<section class="flex justify-between gap-4 max-sm:flex-col"><h1>Companion Library</h1>`)
		w.raw(`<form method="get" action="/companions" class="companion-filters"><input type="search" name="topic" placeholder="Search your companions..."`)
		w.attr("value", d.Params.Topic)
		w.raw(`><select name="subject"><option value="">All subjects</option>`)
		for _, s := range d.Subjects {
			w.raw(`<option`)
			w.attr("value", s)
			if s == d.Params.Subject {
				w.raw(` selected`)
			}
			w.raw(`>`)
			w.text(s)
			w.raw(`</option>`)
		}
		w.raw(`</select><button type="submit">Search</button></form></section>`)

		w.raw(`<section class="companions-grid">`)
		if len(d.Companions) == 0 {
			w.raw(`<p class="empty">No companions match your search.</p>`)
		}
		for _, c := range d.Companions {
			w.render(ctx, CompanionCard(c, d.ColorOf(c.Subject), libraryURL(d.Params, d.Params.Page)))
		}
		w.raw(`</section><nav class="pagination">`)
		if d.Params.Page > 1 {
			w.raw(`<a rel="prev"`)
			w.href(libraryURL(d.Params, d.Params.Page-1))
			w.raw(`>Previous</a>`)
		}
		if d.HasNext {
			w.raw(`<a rel="next"`)
			w.href(libraryURL(d.Params, d.Params.Page+1))
			w.raw(`>Next</a>`)
		}
		w.raw(`</nav>`)
	})
}

// CompanionPage shows one companion and the session launcher.
func CompanionPage(c models.Companion, color string, signedIn bool) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		path := "/companions/" + c.ID
		w.raw(`<article class="companion-detail"><div class="size-[72px] rounded-lg"`)
		w.background(color)
		w.raw(`></div><h1 class="font-bold text-2xl">`)
		w.text(c.Name)
		w.raw(`</h1><div class="subject-badge">`)
		w.text(c.Subject)
		w.raw(`</div><p class="text-lg">`)
		w.text(c.Topic)
		w.raw(`</p><dl><dt>Voice</dt><dd>`)
		w.text(c.Voice)
		w.raw(`</dd><dt>Style</dt><dd>`)
		w.text(c.Style)
		w.raw(`</dd><dt>Duration</dt><dd>`)
		w.text(strconv.Itoa(c.Duration) + " minutes")
		w.raw(`</dd></dl>`)
		if signedIn {
			w.raw(`<form method="post"`)
			w.attr("action", path+"/sessions")
			w.raw(`><input type="hidden" name="path"`)
			w.attr("value", path)
			w.raw(`><button type="submit" class="btn-primary">Start Session</button></form>`)
			for _, action := range []struct{ suffix, label string }{
				{"/bookmark", "Bookmark"},
				{"/unbookmark", "Remove bookmark"},
			} {
				w.raw(`<form method="post"`)
				w.attr("action", path+action.suffix)
				w.raw(`><input type="hidden" name="path"`)
				w.attr("value", path)
				w.raw(`><button type="submit">`)
				w.text(action.label)
				w.raw(`</button></form>`)
			}
		} else {
			w.raw(`<a href="/sign-in" class="btn-primary">Sign in to start a session</a>`)
		}
		w.raw(`</article>`)
	})
}

// CompanionForm is the state of the companion builder form.
type CompanionForm struct {
	Request models.CreateCompanionRequest
	Error   string
}

// NewCompanionPage renders the companion builder.
func NewCompanionPage(f CompanionForm, subjects, voices, styles []string) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<article class="companion-builder"><h1>Companion Builder</h1>`)
		if f.Error != "" {
			w.raw(`<p class="form-error" role="alert">`)
			w.text(f.Error)
			w.raw(`</p>`)
		}
		w.raw(`<form method="post" action="/companions">`)
		input := func(label, name, value string) {
			w.raw(`<label>`)
			w.text(label)
			w.raw(`<input`)
			w.attr("name", name)
			w.attr("value", value)
			w.raw(` required></label>`)
		}
		selectOf := func(label, name, value string, options []string) {
			w.raw(`<label>`)
			w.text(label)
			w.raw(`<select`)
			w.attr("name", name)
			w.raw(` required>`)
			for _, o := range options {
				w.raw(`<option`)
				w.attr("value", o)
				if o == value {
					w.raw(` selected`)
				}
				w.raw(`>`)
				w.text(o)
				w.raw(`</option>`)
			}
			w.raw(`</select></label>`)
		}

		input("Companion name", "name", f.Request.Name)
		selectOf("Subject", "subject", f.Request.Subject, subjects)
		input("What should the companion help with?", "topic", f.Request.Topic)
		selectOf("Voice", "voice", f.Request.Voice, voices)
		selectOf("Style", "style", f.Request.Style, styles)

		duration := f.Request.Duration
		if duration <= 0 {
			duration = 15
		}
		w.raw(`<label>Estimated session duration in minutes<input type="number" name="duration" min="1"`)
		w.attr("value", strconv.Itoa(duration))
		w.raw(` required></label><button type="submit" class="btn-primary">Build Your Companion</button></form></article>`)
	})
}

// LimitReachedPage tells the user their plan allows no more companions.
func LimitReachedPage(message string) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<article class="companion-limit"><div class="cta-badge">Upgrade your plan</div><h1>`)
		w.text(message)
		w.raw(`</h1><p>You've reached your limit. Upgrade to create more companions and premium features.</p>`)
		w.raw(`<a href="/subscription" class="btn-primary">Upgrade My Plan</a></article>`)
	})
}

// JourneyData feeds the my-journey page.
type JourneyData struct {
	UserID     string
	Created    []models.Companion
	Sessions   []models.Companion
	Bookmarked []models.Companion
	ColorOf    ColorFunc
}

// JourneyPage shows the caller's companions, sessions and bookmarks.
func JourneyPage(d JourneyData) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<section class="profile"><h1>My Journey</h1><dl class="stats"><dt>Lessons completed</dt><dd>`)
		w.text(strconv.Itoa(len(d.Sessions)))
		w.raw(`</dd><dt>Companions created</dt><dd>`)
		w.text(strconv.Itoa(len(d.Created)))
		w.raw(`</dd></dl></section>`)
		w.render(ctx, CompanionsList("Bookmarked companions ("+strconv.Itoa(len(d.Bookmarked))+")", d.Bookmarked, d.ColorOf))
		w.render(ctx, CompanionsList("Recent sessions", d.Sessions, d.ColorOf))
		w.render(ctx, CompanionsList("My companions ("+strconv.Itoa(len(d.Created))+")", d.Created, d.ColorOf))
	})
}

// MessagePage renders a heading and a message, used for 404 and error pages.
func MessagePage(heading, message string) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<article class="message-page"><h1>`)
		w.text(heading)
		w.raw(`</h1><p>`)
		w.text(message)
		w.raw(`</p><a href="/" class="btn-primary">Back home</a></article>`)
	})
}
