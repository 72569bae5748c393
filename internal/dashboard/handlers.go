package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/shell"
	"github.com/amsmath/ams/internal/solve"
)

type backdropRequest struct {
	Target string `json:"target"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tabRequest struct {
	Tab auth.Tab `json:"tab"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

type feedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type solveRequest struct {
	Expression string `json:"expression"`
}

// solveResponse pairs the raw result with the text the results region shows.
type solveResponse struct {
	Result  solve.Result  `json:"result"`
	Display solve.Display `json:"display"`
}

type feedbackListResponse struct {
	Entries []shell.EntryView `json:"entries"`
}

func (d *Dashboard) handleView(w http.ResponseWriter, r *http.Request) {
	d.writeView(w, r, http.StatusOK)
}

func (d *Dashboard) handleOpenPanel(w http.ResponseWriter, r *http.Request) {
	d.respond(w, r, d.shell.OpenPanel(panelParam(r)))
}

func (d *Dashboard) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	d.respond(w, r, d.shell.ClosePanel(panelParam(r)))
}

func (d *Dashboard) handleBackdrop(w http.ResponseWriter, r *http.Request) {
	var req backdropRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.respond(w, r, d.shell.ClickBackdrop(panelParam(r), req.Target))
}

func (d *Dashboard) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.respond(w, r, d.shell.Login(req.Username, req.Password))
}

func (d *Dashboard) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupForm
	if !decodeJSON(w, r, &req) {
		return
	}
	d.respond(w, r, d.shell.Signup(req))
}

func (d *Dashboard) handleLogout(w http.ResponseWriter, r *http.Request) {
	d.shell.Logout()
	d.writeView(w, r, http.StatusOK)
}

func (d *Dashboard) handleTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.respond(w, r, d.shell.ActivateTab(req.Tab))
}

func (d *Dashboard) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	v, err := d.shell.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackListResponse{Entries: v.Feedback.Entries})
}

func (d *Dashboard) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := d.shell.SubmitFeedback(r.Context(), req.Comment, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	metricFeedbackPosted.Inc()
	writeJSON(w, http.StatusCreated, shell.EntryView{Entry: *entry, StarBar: entry.Stars()})
}

func (d *Dashboard) handleRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.respond(w, r, d.shell.SetRating(req.Rating))
}

func (d *Dashboard) handleHover(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.shell.HoverRating(req.Rating)
	d.writeView(w, r, http.StatusOK)
}

func (d *Dashboard) handleLeave(w http.ResponseWriter, r *http.Request) {
	d.shell.LeaveRating()
	d.writeView(w, r, http.StatusOK)
}

func (d *Dashboard) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// A client abort must not fail the solve other views are waiting on.
	res, err := d.shell.Solve(context.WithoutCancel(r.Context()), req.Expression)
	observeSolve(res, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{Result: res, Display: res.Display()})
}

// respond answers an action with the resulting view, or with its error.
func (d *Dashboard) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	d.writeView(w, r, http.StatusOK)
}

func (d *Dashboard) writeView(w http.ResponseWriter, r *http.Request, status int) {
	v, err := d.shell.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func panelParam(r *http.Request) overlay.PanelID {
	return overlay.PanelID(chi.URLParam(r, "panel"))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// statusFor maps an action error to its HTTP status.
func statusFor(err error) int {
	var ae *shell.ActionError
	if errors.As(err, &ae) && ae.Internal {
		return http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, overlay.ErrUnknownPanel):
		return http.StatusNotFound
	case errors.Is(err, feedback.ErrNotAuthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, feedback.ErrAlreadySubmitted), errors.Is(err, solve.ErrBusy):
		return http.StatusConflict
	case ae != nil:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("dashboard: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": shell.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
