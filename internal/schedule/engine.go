package schedule

import "time"

// Candidate is one rule-and-ordinal slot evaluated for the current month.
// Start is nil when the ordinal does not exist this month (a month with four
// Wednesdays has no fifth); such slots are simply absent, never an error, and
// are not rolled over into the following month.
type Candidate struct {
	RuleIndex int
	Ordinal   int
	Start     *time.Time
}

// ResolveImminentOccurrence evaluates both rules of the schedule against
// now's month and returns the occurrence considered imminent, if any.
//
// An occurrence is imminent when 0 <= start-now < lead: the lower bound is
// inclusive (an occurrence starting right now still alerts), the upper bound
// exclusive (exactly at the lead boundary is not yet imminent). Among several
// imminent candidates the earliest start wins, ties broken by ascending rule
// index. The result is a pure function of (schedule, now); repeated calls
// with identical inputs return identical results.
//
// The candidate list is always returned for diagnostics, in rule-then-ordinal
// configuration order.
func ResolveImminentOccurrence(s ListingSchedule, now time.Time) (Occurrence, []Candidate, bool) {
	lead := time.Duration(s.AlertLeadHours * float64(time.Hour))

	var candidates []Candidate
	var best Occurrence
	found := false

	for i, rule := range s.Rules {
		dates := MatchingDatesInMonth(rule.Weekday, now)
		for _, n := range rule.Ordinals {
			c := Candidate{RuleIndex: i, Ordinal: n}
			if n >= 1 && n <= len(dates) {
				start := rule.Start.On(dates[n-1])
				c.Start = &start

				until := start.Sub(now)
				if until >= 0 && until < lead {
					occ := Occurrence{RuleIndex: i, Start: start, End: rule.End.On(dates[n-1])}
					if !found || occ.Start.Before(best.Start) {
						best = occ
						found = true
					}
				}
			}
			candidates = append(candidates, c)
		}
	}

	return best, candidates, found
}
