package web

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/sweepalert/internal/alertlog"
	"github.com/example/sweepalert/internal/schedule"
)

type listingView struct {
	ListingID string
	HostID    string
	LeadHours float64
	Rules     []ruleView
	Imminent  string
}

type ruleView struct {
	Day      string
	Ordinals string
	Window   string
}

type dashboardData struct {
	Title    string
	Flash    string
	Listings []listingView
	Alerts   []alertlog.Entry
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(s.TZ)

	var listings []listingView
	for _, l := range s.Listings {
		lv := listingView{
			ListingID: l.ListingID,
			HostID:    l.HostID,
			LeadHours: l.AlertLeadHours,
			Imminent:  "none",
		}
		for _, rule := range l.Rules {
			lv.Rules = append(lv.Rules, ruleView{
				Day:      rule.Weekday.String(),
				Ordinals: ordinalsString(rule.Ordinals),
				Window:   rule.Start.String() + "–" + rule.End.String(),
			})
		}
		if occ, _, ok := schedule.ResolveImminentOccurrence(l, now); ok {
			lv.Imminent = occ.Start.Format("Mon Jan 2 15:04")
		}
		listings = append(listings, lv)
	}

	entries, err := s.Alerts.Recent(r.Context(), 25)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.render(w, "templates/dashboard.html", dashboardData{
		Title:    "Schedules",
		Listings: listings,
		Alerts:   entries,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "templates/login.html", dashboardData{Title: "Login"})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		id, err := s.Auth.Authenticate(r.Context(), username, r.FormValue("password"))
		if err != nil {
			s.render(w, "templates/login.html", dashboardData{Title: "Login", Flash: "Invalid username/password"})
			return
		}
		if err := s.Auth.SetSession(w, r, id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, name string, data dashboardData) {
	t, err := template.ParseFS(fs, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		s.Log.Error("template render failed", "template", name, "err", err)
	}
}

func ordinalsString(ns []int) string {
	var parts []string
	for _, n := range ns {
		suffix := "th"
		switch n {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
		parts = append(parts, strconv.Itoa(n)+suffix)
	}
	return strings.Join(parts, ", ")
}
