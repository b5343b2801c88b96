package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/puzzle"
)

const maxBodyBytes = 1 << 16

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := that.decode(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	session, err := that.sessions.Start(r.Context(), req.toConfig())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionView(session, puzzle.Outcome{}))
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, puzzle.Outcome{}))
}

func (that *Server) applyMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := that.decode(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	move, err := req.toMove()
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	session, outcome, err := that.sessions.Move(r.Context(), chi.URLParam(r, "id"), move)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, outcome))
}

func (that *Server) restartSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, puzzle.Outcome{}))
}

func (that *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode - reads a JSON body into dst and validates it.
func (that *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	if err := that.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrSessionTerminated):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidConfiguration),
		errors.Is(err, apperror.ErrInvalidGuess),
		errors.Is(err, apperror.ErrUnknownKind),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
