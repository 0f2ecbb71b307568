package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/sweepalert/internal/schedule"
)

func TestGuestMessage(t *testing.T) {
	loc := nyLoc(t)
	occ := schedule.Occurrence{
		RuleIndex: 0,
		Start:     time.Date(2024, time.April, 10, 8, 30, 0, 0, loc),
		End:       time.Date(2024, time.April, 10, 11, 30, 0, 0, loc),
	}

	msg := GuestMessage(occ, testSchedule())

	assert.Contains(t, msg, "street cleaning on Wednesday, April 10 from 8:30 AM to 11:30 AM")
	assert.Contains(t, msg, "your side of the street is cleaned on Wednesday")
	assert.Contains(t, msg, "the other side is cleaned on Thursday")
	assert.Contains(t, msg, "Please move your vehicle if needed.")
}
