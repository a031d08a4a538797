// Package view renders the sign-up and welcome pages from embedded pongo2 templates.
package view

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"signup/internal/signup/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	formTemplate    = "form.html"
	welcomeTemplate = "welcome.html"
)

// FormView is everything the sign-up page shows.
type FormView struct {
	SessionID string
	Snapshot  models.Snapshot
	// Rejected holds the message for each posted value the form refused.
	Rejected map[models.Field]string
}

// WelcomeView is everything the welcome page shows.
type WelcomeView struct {
	Name     string
	Username string
	Device   string
}

// Renderer holds the compiled templates. It is safe for concurrent use.
type Renderer struct {
	form    *pongo2.Template
	welcome *pongo2.Template
}

// New compiles the embedded templates.
func New() (*Renderer, error) {
	files, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("view: open templates: %w", err)
	}
	set := pongo2.NewSet("signup", pongo2.NewFSLoader(files))

	form, err := set.FromFile(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("view: compile %s: %w", formTemplate, err)
	}
	welcome, err := set.FromFile(welcomeTemplate)
	if err != nil {
		return nil, fmt.Errorf("view: compile %s: %w", welcomeTemplate, err)
	}
	return &Renderer{form: form, welcome: welcome}, nil
}

// RenderForm writes the sign-up page. Password inputs are never rendered back.
func (r *Renderer) RenderForm(w io.Writer, v FormView) error {
	snap := v.Snapshot
	data := snap.Data.Redacted()

	genders := make([]map[string]any, 0, 2)
	for _, g := range []models.Gender{models.GenderMale, models.GenderFemale} {
		genders = append(genders, map[string]any{
			"value":   string(g),
			"label":   g.Label(),
			"checked": data.Gender == string(g),
		})
	}

	states := make([]map[string]any, 0, len(snap.States))
	for _, st := range snap.States {
		states = append(states, map[string]any{
			"code":     st.Code,
			"name":     st.Name,
			"selected": strings.EqualFold(st.Code, data.State),
		})
	}

	counties := make([]map[string]any, 0, len(snap.Counties))
	for _, name := range snap.Counties {
		counties = append(counties, map[string]any{
			"name":     name,
			"selected": name == data.County,
		})
	}

	rejected := make(map[string]string, len(v.Rejected))
	for field, msg := range v.Rejected {
		rejected[field.String()] = msg
	}

	return r.form.ExecuteWriter(pongo2.Context{
		"session_id":         v.SessionID,
		"data":               data,
		"errors":             snap.Errors,
		"username_conflict":  snap.UsernameConflict,
		"suggested_password": snap.SuggestedPassword,
		"genders":            genders,
		"states":             states,
		"counties":           counties,
		"rejected":           rejected,
		"data_has_password":  snap.Data.Password != "",
	}, w)
}

// RenderWelcome writes the welcome page.
func (r *Renderer) RenderWelcome(w io.Writer, v WelcomeView) error {
	return r.welcome.ExecuteWriter(pongo2.Context{
		"name":     v.Name,
		"username": v.Username,
		"device":   v.Device,
	}, w)
}
