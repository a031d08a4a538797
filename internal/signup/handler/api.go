package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"signup/internal/signup/models"
	"signup/internal/signup/session"
	id "signup/pkg/domain"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/httputil"
	"signup/pkg/requestcontext"
)

// HandleCreateSession implements POST /api/signup/sessions.
// Creates and mounts a form, returning its first snapshot.
//
// Output: 201 { "session_id": "...", "snapshot": { ... } }
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, err := h.startSession(ctx, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start form session",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "form session created",
		"request_id", requestID,
		"session_id", sess.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// HandleGetSession implements GET /api/signup/sessions/{id}.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

// HandleDeleteSession implements DELETE /api/signup/sessions/{id}.
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(ctx, sid); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeField implements PUT /api/signup/sessions/{id}/fields/{field}.
// With ?wait=true the response is written after the field's lookup settles.
//
// Input: { "value": "93955" }
func (h *Handler) HandleChangeField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	field, known := models.ParseField(chi.URLParam(r, "field"))
	if !known {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown field"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChangeFieldRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")) //nolint:errcheck // absent or malformed means no wait

	err := h.sessions.WithLock(sess.ID, func() error {
		if err := sess.Form.Change(ctx, field, cleanValue(field, *req.Value)); err != nil {
			return err
		}
		if wait {
			if err := sess.Form.Settle(ctx); err != nil {
				return dErrors.Wrap(err, dErrors.CodeTimeout, "pending lookups did not finish")
			}
		}
		return nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "field change failed",
			"error", err,
			"request_id", requestID,
			"field", field.String(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

// HandleSuggestPassword implements POST /api/signup/sessions/{id}/password-suggestion.
//
// Input: { "length": 12 } (optional)
// Output: { "password": "..." }
func (h *Handler) HandleSuggestPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PasswordSuggestionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	length := req.Length
	if length == 0 {
		length = h.cfg.SuggestedPasswordLength
	}

	var password string
	err := h.sessions.WithLock(sess.ID, func() error {
		p, err := sess.Form.SuggestPassword(ctx, length)
		password = p
		return err
	})
	if err != nil {
		h.logger.WarnContext(ctx, "password suggestion failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &PasswordSuggestionResponse{Password: password})
}

// HandleSubmit implements POST /api/signup/sessions/{id}/submit.
// Accepted forms get 200 with the welcome redirect; rejected forms get 422 with field errors.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	ctx = requestcontext.WithSessionID(ctx, sess.ID)

	var result *models.SubmitResult
	err := h.sessions.WithLock(sess.ID, func() error {
		res, err := sess.Form.Submit(ctx)
		result = res
		return err
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := &SubmitResponse{
		Accepted:         result.Accepted,
		Errors:           result.Errors,
		UsernameConflict: result.UsernameConflict,
	}
	if !result.Accepted {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	token, err := h.issueTicket(ctx, result)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue welcome ticket",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	resp.Route = result.Route
	resp.Redirect = welcomeURL(token)
	resp.Ticket = token
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// issueTicket turns an accepted submission into a signed welcome ticket.
func (h *Handler) issueTicket(ctx context.Context, result *models.SubmitResult) (string, error) {
	now := requestcontext.Now(ctx)
	reg, err := h.registrations.Build(result.Data, requestcontext.UserAgent(ctx), now)
	if err != nil {
		return "", err
	}
	return h.tickets.Issue(reg, now)
}

func (h *Handler) sessionIDParam(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sid, err := id.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sid, true
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	ctx := r.Context()
	sid, ok := h.sessionIDParam(w, r)
	if !ok {
		return nil, false
	}
	sess, err := h.sessions.Get(ctx, sid, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}
