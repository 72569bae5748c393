// Package dashboard serves the browser front end of the shell: a JSON API
// for every user action and a websocket that pushes the view on change.
package dashboard

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amsmath/ams/internal/shell"
)

// requestTimeout bounds the JSON API. The websocket and solve routes are
// exempt: a solve waits on the solver for as long as it takes.
const requestTimeout = 60 * time.Second

// Dashboard exposes one shell over HTTP.
type Dashboard struct {
	shell *shell.Shell
}

// New creates a Dashboard over sh.
func New(sh *shell.Shell) *Dashboard {
	return &Dashboard{shell: sh}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/ws/view", d.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/solve", d.handleSolve)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/view", d.handleView)

			r.Route("/panels/{panel}", func(r chi.Router) {
				r.Post("/open", d.handleOpenPanel)
				r.Post("/close", d.handleClosePanel)
				r.Post("/backdrop", d.handleBackdrop)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", d.handleLogin)
				r.Post("/signup", d.handleSignup)
				r.Post("/logout", d.handleLogout)
				r.Post("/tab", d.handleTab)
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", d.handleListFeedback)
				r.Post("/", d.handleSubmitFeedback)
				r.Post("/rating", d.handleRating)
				r.Post("/hover", d.handleHover)
				r.Post("/leave", d.handleLeave)
			})
		})
	})
}
