// Package handler serves the sign-up form as HTML pages and as a JSON API over form sessions.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"signup/internal/signup/models"
	"signup/internal/signup/registration"
	"signup/internal/signup/session"
	"signup/internal/signup/ticket"
	"signup/internal/signup/view"
	id "signup/pkg/domain"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/middleware/request"
	"signup/pkg/platform/sanitize"
)

const (
	defaultCookieName = "signup_session"

	routeSignup  = "/signup"
	routeWelcome = models.RouteWelcome
)

// Sessions is the subset of the session store the handler needs.
type Sessions interface {
	Create(ctx context.Context, now time.Time) (*session.Session, error)
	Get(ctx context.Context, sessionID id.SessionID, now time.Time) (*session.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	WithLock(sessionID id.SessionID, fn func() error) error
	TTL() time.Duration
}

// Tickets issues and verifies welcome tickets.
type Tickets interface {
	Issue(reg *registration.Registration, now time.Time) (string, error)
	Verify(token string, now time.Time) (*ticket.Claims, error)
}

// Config holds handler settings.
type Config struct {
	CookieName              string
	SecureCookies           bool
	SuggestedPasswordLength int
}

// Handler serves the sign-up pages and the form session API.
type Handler struct {
	sessions      Sessions
	views         *view.Renderer
	registrations *registration.Builder
	tickets       Tickets
	logger        *slog.Logger
	cfg           Config
}

// New creates a Handler. Zero config values fall back to defaults.
func New(sessions Sessions, views *view.Renderer, registrations *registration.Builder, tickets Tickets, logger *slog.Logger, cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.SuggestedPasswordLength <= 0 {
		cfg.SuggestedPasswordLength = 8
	}
	if registrations == nil {
		registrations = registration.NewBuilder(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions:      sessions,
		views:         views,
		registrations: registrations,
		tickets:       tickets,
		logger:        logger,
		cfg:           cfg,
	}
}

// Register mounts the HTML pages and the JSON API on r.
func (h *Handler) Register(r chi.Router) {
	r.Get(routeSignup, h.HandleSignupPage)
	r.Post(routeSignup, h.HandleSignupPost)
	r.Get(routeWelcome, h.HandleWelcomePage)

	r.Route("/api/signup/sessions", func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Post("/", h.HandleCreateSession)
		r.Get("/{id}", h.HandleGetSession)
		r.Delete("/{id}", h.HandleDeleteSession)
		r.Put("/{id}/fields/{field}", h.HandleChangeField)
		r.Post("/{id}/password-suggestion", h.HandleSuggestPassword)
		r.Post("/{id}/submit", h.HandleSubmit)
	})
}

// cleanValue strips markup from free-text inputs. Passwords are taken verbatim.
func cleanValue(field models.Field, value string) string {
	if field.Secret() {
		return value
	}
	return sanitize.Text(value)
}

// applyFields changes every editable field whose value differs from the form's current one.
// Unchanged fields are skipped so a full form post does not restart their lookups. Password
// inputs are never rendered back, so an empty one keeps the stored password.
// Values the form refuses are returned by field; any other failure aborts.
func applyFields(ctx context.Context, sess *session.Session, values map[models.Field]string) (map[models.Field]string, error) {
	current := sess.Form.Snapshot().Data
	var rejected map[models.Field]string
	for _, field := range models.EditableFields {
		value, ok := values[field]
		if !ok {
			continue
		}
		value = cleanValue(field, value)
		if value == current.Get(field) || (field.Secret() && value == "") {
			continue
		}
		if err := sess.Form.Change(ctx, field, value); err != nil {
			msg, ok := rejection(err)
			if !ok {
				return nil, err
			}
			if rejected == nil {
				rejected = make(map[models.Field]string)
			}
			rejected[field] = msg
		}
	}
	return rejected, nil
}

// rejection returns the user-facing message for an input the form refused.
func rejection(err error) (string, bool) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		return "", false
	}
	switch domainErr.Code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return domainErr.Message, true
	}
	return "", false
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
