package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"arbeitszeit/internal/entry"
	"arbeitszeit/internal/export"
	"arbeitszeit/internal/models"
	"arbeitszeit/internal/repository"
	"arbeitszeit/internal/session"
)

type ctxKey struct{}

// Handler contains HTTP handlers.
type Handler struct {
	svc    Timesheets
	ready  ReadyFunc
	logger *zerolog.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type loginRequest struct {
	Login string `json:"login"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Login string `json:"login"`
}

// entryRequest is the body of PUT /api/entries/{date}; the date comes from the path.
type entryRequest struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Break        string `json:"break"`
	FullVacation bool   `json:"full_vacation"`
	HalfVacation bool   `json:"half_vacation"`
	Seminar      bool   `json:"seminar"`
	CompLeave    bool   `json:"comp_leave"`
}

func (e entryRequest) form(date string) entry.Form {
	return entry.Form{
		Date:         date,
		Start:        e.Start,
		End:          e.End,
		Break:        e.Break,
		FullVacation: e.FullVacation,
		HalfVacation: e.HalfVacation,
		Seminar:      e.Seminar,
		CompLeave:    e.CompLeave,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	sess, err := h.svc.Login(r.Context(), req.Login)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, Login: sess.Login})
}

// DeleteSession handles DELETE /api/sessions.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := h.svc.Logout(r.Context(), sess.Token); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEntries handles GET /api/entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Overview(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// SaveEntry handles PUT /api/entries/{date}.
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	res, err := h.svc.Save(r.Context(), sessionFrom(r.Context()), req.form(chi.URLParam(r, "date")))
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// DeleteEntry handles DELETE /api/entries/{date}.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "date")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), sess, &buf); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.GenerateFilename(sess.Login, time.Now())))
	_, _ = buf.WriteTo(w)
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.svc.Session(r.Context(), r.Header.Get(SessionHeader))
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "no active session", "")
				return
			}
			h.fail(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(ctxKey{}).(*models.Session)
	return sess
}

// fail maps service errors onto status codes.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *entry.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, verr.Error(), verr.Reason)
	case errors.Is(err, session.ErrEmptyLogin):
		writeError(w, http.StatusBadRequest, "please enter a login", "")
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "no active session", "")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "no entry for this date", "")
	default:
		h.logger.Error().Err(err).Msg("record store request failed")
		writeError(w, http.StatusBadGateway, "record store unavailable", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, reason string) {
	writeJSON(w, status, ErrorResponse{Error: message, Reason: reason})
}
