package views

import (
	"context"
	"strconv"

	"companion-app/frontend/internal/models"

	"github.com/a-h/templ"
)

// ColorFunc maps a subject to its display color.
type ColorFunc func(subject string) string

// CompanionCard renders one catalog card. path is where bookmark actions
// return to.
func CompanionCard(c models.Companion, color, path string) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<article class="companion-card"`)
		w.background(color)
		w.attr("data-id", c.ID)
		w.raw(`><div class="flex justify-between items-center"><div class="subject-badge">`)
		w.text(c.Subject)
		w.raw(`</div><form method="post"`)
		w.attr("action", "/companions/"+c.ID+"/bookmark")
		w.raw(`><input type="hidden" name="path"`)
		w.attr("value", path)
		w.raw(`><button type="submit" class="companion-bookmark">Bookmark</button></form></div><h2 class="text-2xl font-bold">`)
		w.text(c.Name)
		w.raw(`</h2><p class="text-sm">`)
		w.text(c.Topic)
		w.raw(`</p><p class="duration">`)
		w.text(strconv.Itoa(c.Duration) + " mins duration")
		w.raw(`</p><a class="btn-primary"`)
		w.href("/companions/" + c.ID)
		w.raw(`>Launch Lesson</a></article>`)
	})
}

// CompanionsList renders a titled table of companions.
func CompanionsList(title string, companions []models.Companion, colorOf ColorFunc) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<article class="companion-list"><h2 class="font-bold text-3xl">`)
		w.text(title)
		w.raw(`</h2>`)
		if len(companions) == 0 {
			w.raw(`<p class="empty">No sessions yet.</p></article>`)
			return
		}
		w.raw(`<table><thead><tr><th>Lessons</th><th>Subject</th><th>Duration</th></tr></thead><tbody>`)
		for _, c := range companions {
			w.raw(`<tr><td><a`)
			w.href("/companions/" + c.ID)
			w.raw(`><span class="subject-icon"`)
			w.background(colorOf(c.Subject))
			w.raw(`></span><p class="font-bold text-2xl">`)
			w.text(c.Name)
			w.raw(`</p><p class="text-lg">`)
			w.text(c.Topic)
			w.raw(`</p></a></td><td><div class="subject-badge">`)
			w.text(c.Subject)
			w.raw(`</div></td><td>`)
			w.text(strconv.Itoa(c.Duration) + " mins")
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></article>`)
	})
}

// CTA renders the call-to-action block of the home page.
func CTA() templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<section class="cta-section"><div class="cta-badge">Start learning your way.</div>`)
		w.raw(`<h2 class="text-3xl font-bold">Build and Personalize Learning Companion</h2>`)
		w.raw(`<p>Pick a name, subject, voice, &amp; personality and start learning through voice conversations that feel natural and fun.</p>`)
		w.raw(`<a href="/companions/new" class="btn-primary">Build a New Companion</a></section>`)
	})
}
