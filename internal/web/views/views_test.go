package views

import (
	"bytes"
	"context"
	"testing"

	"companion-app/frontend/internal/models"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func gray(string) string { return "#E5E5E5" }

func TestCompanionCardEscapesFields(t *testing.T) {
	html := render(t, CompanionCard(models.Companion{
		ID:       "c1",
		Name:     `<script>alert("x")</script>`,
		Subject:  "maths",
		Duration: 15,
	}, "#FFDA6E", "/"))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `href="/companions/c1"`)
	assert.Contains(t, html, "background-color: #FFDA6E")
	assert.Contains(t, html, "15 mins duration")
}

func TestCompanionMarkupStaysInert(t *testing.T) {
	c := models.Companion{
		ID:      `c1" onmouseover="alert(1)`,
		Name:    "Neura",
		Subject: `maths"><img src=x>`,
	}

	card := render(t, CompanionCard(c, "red; background-image: url(javascript:alert(1))", "/"))
	assert.NotContains(t, card, `onmouseover="alert`)
	assert.NotContains(t, card, "<img")
	assert.NotContains(t, card, "background-image")
	assert.NotContains(t, card, "style=")

	detail := render(t, CompanionPage(c, "#fff", true))
	assert.Contains(t, detail, "background-color: #fff")
	assert.NotContains(t, detail, "<img")
	assert.NotContains(t, detail, `onmouseover="alert`)
}

func TestLayoutRendersToasts(t *testing.T) {
	html := render(t, Layout("Home", Viewer{}, []Toast{{Level: "error", Message: "Failed to load companions"}}, templ.NopComponent))

	assert.Contains(t, html, `class="toast toast-error"`)
	assert.Contains(t, html, "Failed to load companions")
	assert.Contains(t, html, "Sign in")
}

func TestHomePage(t *testing.T) {
	html := render(t, HomePage(HomeData{
		Popular: []models.Companion{{ID: "a", Name: "Neura"}},
		Recent:  []models.Companion{{ID: "b", Name: "Countsy"}},
		ColorOf: gray,
	}))

	assert.Contains(t, html, "Popular Companions")
	assert.Contains(t, html, "Neura")
	assert.Contains(t, html, "Recently completed sessions")
	assert.Contains(t, html, "Countsy")
	assert.Contains(t, html, "Build a New Companion")
}

func TestLibraryPagination(t *testing.T) {
	html := render(t, LibraryPage(LibraryData{
		Params:   models.ListCompanionsParams{Page: 2, Limit: 10, Subject: "maths"},
		Subjects: []string{"maths", "science"},
		ColorOf:  gray,
		HasNext:  true,
	}))

	assert.Contains(t, html, `href="/companions?page=1&amp;subject=maths"`)
	assert.Contains(t, html, `href="/companions?page=3&amp;subject=maths"`)
	assert.Contains(t, html, `<option value="maths" selected>`)
	assert.Contains(t, html, "No companions match your search.")
}

func TestNewCompanionPageKeepsValues(t *testing.T) {
	html := render(t, NewCompanionPage(CompanionForm{
		Request: models.CreateCompanionRequest{Name: "Neura", Voice: "female"},
		Error:   "A companion with this name already exists.",
	}, []string{"maths"}, []string{"male", "female"}, []string{"formal"}))

	assert.Contains(t, html, `value="Neura"`)
	assert.Contains(t, html, `<option value="female" selected>`)
	assert.Contains(t, html, "A companion with this name already exists.")
	assert.Contains(t, html, `value="15"`)
}
