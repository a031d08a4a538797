package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"signup/internal/signup/models"
	"signup/internal/signup/session"
	"signup/internal/signup/view"
	id "signup/pkg/domain"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/httputil"
	"signup/pkg/requestcontext"
)

// Form actions posted by the sign-up page buttons.
const (
	actionUpdate  = "update"
	actionSuggest = "suggest"
	actionSubmit  = "submit"
)

// HandleSignupPage implements GET /signup.
// A live session from the cookie is resumed; otherwise a new form is created and mounted.
func (h *Handler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	now := requestcontext.Now(ctx)

	if sess := h.sessionFromRequest(ctx, r, now); sess != nil {
		h.renderForm(ctx, w, http.StatusOK, sess, nil)
		return
	}

	sess, err := h.startSession(ctx, now)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start form session",
			"error", err,
			"request_id", requestID,
		)
		writeHTMLError(w, err)
		return
	}
	h.setSessionCookie(w, r, sess.ID)
	h.renderForm(ctx, w, http.StatusOK, sess, nil)
}

// HandleSignupPost implements POST /signup.
// Every posted field is applied, then the action button decides what happens next:
// update waits for lookups, suggest fetches a new password, submit validates and on
// success redirects to the welcome page with a signed ticket. A refused value re-renders
// the form with the message next to its input and the action is treated as update.
func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	now := requestcontext.Now(ctx)

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "failed to parse form",
			"error", err,
			"request_id", requestID,
		)
		writeHTMLError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form body"))
		return
	}

	sess := h.sessionFromRequest(ctx, r, now)
	if sess == nil {
		http.Redirect(w, r, routeSignup, http.StatusSeeOther)
		return
	}
	ctx = requestcontext.WithSessionID(ctx, sess.ID)

	values := make(map[models.Field]string, len(models.EditableFields))
	for _, field := range models.EditableFields {
		if _, ok := r.PostForm[field.String()]; ok {
			values[field] = r.PostForm.Get(field.String())
		}
	}

	var (
		result   *models.SubmitResult
		rejected map[models.Field]string
		status   = http.StatusOK
	)
	err := h.sessions.WithLock(sess.ID, func() error {
		var err error
		rejected, err = applyFields(ctx, sess, values)
		if err != nil {
			return err
		}
		action := r.PostForm.Get("action")
		if len(rejected) > 0 {
			action = actionUpdate
		}
		switch action {
		case actionSubmit:
			res, err := sess.Form.Submit(ctx)
			if err != nil {
				return err
			}
			result = res
		case actionSuggest:
			if _, err := sess.Form.SuggestPassword(ctx, h.cfg.SuggestedPasswordLength); err != nil {
				h.logger.WarnContext(ctx, "password suggestion failed",
					"error", err,
					"request_id", requestID,
				)
			}
		default:
			if err := sess.Form.Settle(ctx); err != nil {
				h.logger.WarnContext(ctx, "lookups still pending at render",
					"error", err,
					"request_id", requestID,
				)
			}
		}
		return nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "form post failed",
			"error", err,
			"request_id", requestID,
		)
		writeHTMLError(w, err)
		return
	}

	if len(rejected) > 0 {
		status = http.StatusUnprocessableEntity
	}
	if result != nil {
		if !result.Accepted {
			status = http.StatusUnprocessableEntity
		} else {
			token, err := h.issueTicket(ctx, result)
			if err != nil {
				h.logger.ErrorContext(ctx, "failed to issue welcome ticket",
					"error", err,
					"request_id", requestID,
				)
				writeHTMLError(w, err)
				return
			}
			if err := h.sessions.Delete(ctx, sess.ID); err != nil {
				h.logger.WarnContext(ctx, "failed to close accepted session",
					"error", err,
					"request_id", requestID,
				)
			}
			h.clearSessionCookie(w, r)
			http.Redirect(w, r, welcomeURL(token), http.StatusSeeOther)
			return
		}
	}
	h.renderForm(ctx, w, status, sess, rejected)
}

// HandleWelcomePage implements GET /welcome. Missing or invalid tickets go back to the form.
func (h *Handler) HandleWelcomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	claims, err := h.tickets.Verify(r.URL.Query().Get("ticket"), requestcontext.Now(ctx))
	if err != nil {
		h.logger.InfoContext(ctx, "welcome ticket rejected",
			"error", err,
			"request_id", requestID,
		)
		http.Redirect(w, r, routeSignup, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if err := h.views.RenderWelcome(&buf, view.WelcomeView{
		Name:     claims.Name,
		Username: claims.Subject,
		Device:   claims.Device,
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to render welcome page",
			"error", err,
			"request_id", requestID,
		)
		writeHTMLError(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (h *Handler) startSession(ctx context.Context, now time.Time) (*session.Session, error) {
	sess, err := h.sessions.Create(ctx, now)
	if err != nil {
		return nil, err
	}
	if err := sess.Form.Mount(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// sessionFromRequest resolves the session from the cookie, falling back to the hidden form field.
func (h *Handler) sessionFromRequest(ctx context.Context, r *http.Request, now time.Time) *session.Session {
	candidates := make([]string, 0, 2)
	if cookie, err := r.Cookie(h.cfg.CookieName); err == nil {
		candidates = append(candidates, cookie.Value)
	}
	if r.PostForm != nil {
		candidates = append(candidates, r.PostForm.Get("session"))
	}
	for _, raw := range candidates {
		sid, err := id.ParseSessionID(raw)
		if err != nil {
			continue
		}
		if sess, err := h.sessions.Get(ctx, sid, now); err == nil {
			return sess
		}
	}
	return nil
}

func (h *Handler) renderForm(ctx context.Context, w http.ResponseWriter, status int, sess *session.Session, rejected map[models.Field]string) {
	var buf bytes.Buffer
	if err := h.views.RenderForm(&buf, view.FormView{
		SessionID: sess.ID.String(),
		Snapshot:  sess.Form.Snapshot(),
		Rejected:  rejected,
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to render form",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeHTMLError(w, err)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, sid id.SessionID) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sid.String(),
		Path:     routeSignup,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies || isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     routeSignup,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies || isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func welcomeURL(token string) string {
	return routeWelcome + "?" + url.Values{"ticket": {token}}.Encode()
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body) //nolint:errcheck // headers already sent
}

// writeHTMLError maps domain errors to a plain-text error page.
func writeHTMLError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	status := httputil.DomainCodeToHTTPStatus(domainErr.Code)
	msg := domainErr.Message
	if status >= http.StatusInternalServerError || msg == "" {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}
