package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/example/sweepalert/internal/alert"
	"github.com/example/sweepalert/internal/alertlog"
	"github.com/example/sweepalert/internal/auth"
	"github.com/example/sweepalert/internal/mailer"
	"github.com/example/sweepalert/internal/runner"
	"github.com/example/sweepalert/internal/schedule"
)

//go:embed templates/*.html
var fs embed.FS

// Server is the HTTP surface: token-guarded trigger endpoints for the
// external scheduler plus a session-auth dashboard.
type Server struct {
	Auth     *auth.Store
	Runner   *runner.Runner
	Snow     *runner.SnowCheck
	Alerts   *alertlog.Repo
	Listings []schedule.ListingSchedule
	Mailer   *mailer.Mailer
	Log      hclog.Logger

	TriggerToken string
	TZ           *time.Location
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/api/street-cleanings", s.requireToken(s.handleStreetCleanings))
	mux.HandleFunc("/api/snow", s.requireToken(s.handleSnow))

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.Handle("/", s.Auth.RequireAuth(http.HandlerFunc(s.handleDashboard)))

	return mux
}

// requireToken guards the trigger endpoints with the shared token, passed as
// a query parameter by the external scheduler.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
			return
		}
		got := r.URL.Query().Get("token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.TriggerToken)) != 1 {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
			return
		}
		next(w, r)
	}
}

type listingResult struct {
	Listing string `json:"listing"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleStreetCleanings(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(s.TZ)
	results, errs := s.Runner.RunAll(r.Context(), now)

	out := struct {
		Results []listingResult `json:"results"`
		Errors  []string        `json:"errors,omitempty"`
	}{}
	anySent := false
	for _, res := range results {
		msg := res.Outcome.Reason()
		if res.Notified {
			msg = fmt.Sprintf("sent alert to %s for street cleaning: %s",
				res.Outcome.Reservation.GuestUID, res.Outcome.Occurrence.Start.Format(time.RFC3339))
			anySent = true
		}
		out.Results = append(out.Results, listingResult{
			Listing: res.ListingID,
			Status:  res.Status(),
			Message: msg,
		})
	}
	for _, err := range errs {
		out.Errors = append(out.Errors, err.Error())
	}

	status := http.StatusOK
	switch {
	case anySent:
		status = http.StatusCreated
	case len(results) == 0 && len(errs) > 0:
		status = errStatus(errs[0])
	}

	if len(errs) > 0 {
		s.reportErrors(r.Context(), "street cleaning trigger", errs)
	}
	writeJSON(w, status, out)
}

func (s *Server) handleSnow(w http.ResponseWriter, r *http.Request) {
	res, err := s.Snow.Run(r.Context())
	if err != nil {
		s.reportErrors(r.Context(), "snow trigger", []error{err})
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": err.Error()})
		return
	}

	msg := fmt.Sprintf("max forecast snow depth is %.2f in at %s", res.Max.Depth, res.Max.Time.Format(time.RFC3339))
	if res.Alerted {
		msg = "I have alerted the humans to rid the rental of snow and ice."
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"max_depth_in": res.Max.Depth,
		"max_at":       res.Max.Time,
		"alerted":      res.Alerted,
		"message":      msg,
	})
}

// errStatus maps error classes to HTTP statuses: upstream outages are 502,
// config validation 400, everything else (including calendar inconsistency)
// 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, alert.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, schedule.ErrInvalidSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// reportErrors emails trigger failures to the system-events recipient.
func (s *Server) reportErrors(ctx context.Context, where string, errs []error) {
	if s.Mailer == nil {
		return
	}
	var b strings.Builder
	b.WriteString("<p>Errors during " + template.HTMLEscapeString(where) + ":</p><ul>")
	for _, err := range errs {
		b.WriteString("<li>" + template.HTMLEscapeString(err.Error()) + "</li>")
	}
	b.WriteString("</ul>")
	if err := s.Mailer.SendSystemEvent(ctx, "error report: "+where, b.String()); err != nil {
		s.Log.Error("error report email failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
