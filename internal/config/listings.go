package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/sweepalert/internal/schedule"
)

type listingsFile struct {
	Listings []listingYAML `yaml:"listings"`
}

type listingYAML struct {
	Listing        string     `yaml:"listing"`
	Host           string     `yaml:"host"`
	AlertLeadHours float64    `yaml:"alert_lead_hours"`
	Rules          []ruleYAML `yaml:"rules"`
}

type ruleYAML struct {
	Day      string `yaml:"day"`
	Ordinals []int  `yaml:"ordinals"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
}

// LoadListings reads listing schedules from a YAML file and validates them.
// Each listing carries exactly two rules: the first is the side of the street
// in front of the house, the second the other side. Rule times are wall-clock;
// the site zone is applied at resolution time.
func LoadListings(path string) ([]schedule.ListingSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("listings: %w", err)
	}

	var f listingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("listings: %w", err)
	}
	if len(f.Listings) == 0 {
		return nil, fmt.Errorf("listings: %w: no listings configured", schedule.ErrInvalidSchedule)
	}

	out := make([]schedule.ListingSchedule, 0, len(f.Listings))
	for _, l := range f.Listings {
		if len(l.Rules) != 2 {
			return nil, fmt.Errorf("listings: %w: listing %q needs exactly 2 rules (got %d)",
				schedule.ErrInvalidSchedule, l.Listing, len(l.Rules))
		}

		s := schedule.ListingSchedule{
			ListingID:      l.Listing,
			HostID:         l.Host,
			AlertLeadHours: l.AlertLeadHours,
		}
		for i, r := range l.Rules {
			rule, err := parseRule(r)
			if err != nil {
				return nil, fmt.Errorf("listings: listing %q rule %d: %w", l.Listing, i, err)
			}
			s.Rules[i] = rule
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("listings: listing %q: %w", l.Listing, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRule(r ruleYAML) (schedule.WeekdayRule, error) {
	day, err := schedule.ParseWeekday(r.Day)
	if err != nil {
		return schedule.WeekdayRule{}, err
	}
	start, err := schedule.ParseClock(r.Start)
	if err != nil {
		return schedule.WeekdayRule{}, err
	}
	end, err := schedule.ParseClock(r.End)
	if err != nil {
		return schedule.WeekdayRule{}, err
	}
	return schedule.WeekdayRule{Weekday: day, Ordinals: r.Ordinals, Start: start, End: end}, nil
}
