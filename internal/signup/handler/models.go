package handler

import (
	"signup/internal/signup/models"
	"signup/internal/signup/session"
	"signup/pkg/validation"
)

// ChangeFieldRequest sets one form field. An empty value clears the field.
type ChangeFieldRequest struct {
	Value *string `json:"value" validate:"required"`
}

func (r *ChangeFieldRequest) Validate() error {
	return validation.Validate(r)
}

// PasswordSuggestionRequest asks for a suggested password. Zero length uses the configured default.
type PasswordSuggestionRequest struct {
	Length int `json:"length" validate:"omitempty,min=6,max=64"`
}

func (r *PasswordSuggestionRequest) Validate() error {
	return validation.Validate(r)
}

type PasswordSuggestionResponse struct {
	Password string `json:"password"`
}

// SessionResponse is a form session as seen by API clients. Password inputs are never echoed.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Route     string          `json:"route,omitempty"`
	Snapshot  models.Snapshot `json:"snapshot"`
}

func toSessionResponse(sess *session.Session) *SessionResponse {
	snap := sess.Form.Snapshot()
	snap.Data = snap.Data.Redacted()
	return &SessionResponse{
		SessionID: sess.ID.String(),
		Route:     sess.Route(),
		Snapshot:  snap,
	}
}

type SubmitResponse struct {
	Accepted         bool              `json:"accepted"`
	Route            string            `json:"route,omitempty"`
	Redirect         string            `json:"redirect,omitempty"`
	Ticket           string            `json:"ticket,omitempty"`
	Errors           models.FormErrors `json:"errors"`
	UsernameConflict string            `json:"username_conflict,omitempty"`
}
