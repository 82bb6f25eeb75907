package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/namelessknight/autostartstop/pkg/holiday"
	testify "github.com/stretchr/testify/assert"
)

var jst = time.FixedZone("UTC+9", 9*3600)

func testPolicy() TimePolicy {
	return TimePolicy{StartHour: 8, EndHour: 18, Location: jst}
}

// 2025-07-09 is a Wednesday
func weekdayAt(hour int) time.Time {
	return time.Date(2025, time.July, 9, hour, 0, 0, 0, jst)
}

func TestDeriveDefaultActionOverAllHours(t *testing.T) {
	assert := testify.New(t)
	policy := testPolicy()

	for hour := 0; hour < 24; hour++ {
		expected := ActionStop
		if hour >= 8 && hour < 18 {
			expected = ActionStart
		}
		got := DeriveDefaultAction(weekdayAt(hour), policy)
		assert.Equal(expected, got, fmt.Sprintf("hour %d", hour))
	}
}

func TestDeriveDefaultActionUsesPolicyTimezone(t *testing.T) {
	assert := testify.New(t)
	policy := testPolicy()

	// 23:30 UTC is 08:30 in UTC+9, inside the window
	utc := time.Date(2025, time.July, 8, 23, 30, 0, 0, time.UTC)
	assert.Equal(ActionStart, DeriveDefaultAction(utc, policy))

	// 10:00 UTC is 19:00 in UTC+9, outside the window
	utc = time.Date(2025, time.July, 8, 10, 0, 0, 0, time.UTC)
	assert.Equal(ActionStop, DeriveDefaultAction(utc, policy))
}

func TestIsRestDayWeekend(t *testing.T) {
	assert := testify.New(t)
	policy := testPolicy()

	saturday := time.Date(2025, time.July, 12, 10, 0, 0, 0, jst)
	sunday := time.Date(2025, time.July, 13, 10, 0, 0, 0, jst)

	// Weekend forcing works with no holiday data at all
	assert.True(IsRestDay(saturday, policy, holiday.Set{}))
	assert.True(IsRestDay(sunday, policy, nil))
	assert.False(IsRestDay(weekdayAt(10), policy, holiday.Set{}))
}

func TestIsRestDayHoliday(t *testing.T) {
	assert := testify.New(t)
	policy := testPolicy()
	holidays := holiday.Set{"2025-07-09": {}}

	assert.True(IsRestDay(weekdayAt(10), policy, holidays))
	assert.False(IsRestDay(time.Date(2025, time.July, 10, 10, 0, 0, 0, jst), policy, holidays))
}

func TestApplyRestDayOverride(t *testing.T) {
	assert := testify.New(t)

	assert.Equal(ActionStop, ApplyRestDayOverride(ActionStart, true))
	assert.Equal(ActionStop, ApplyRestDayOverride(ActionStop, true))
	assert.Equal(ActionStart, ApplyRestDayOverride(ActionStart, false))
	assert.Equal(ActionStop, ApplyRestDayOverride(ActionStop, false))
}

func TestResolveInstanceAction(t *testing.T) {
	assert := testify.New(t)

	cases := []struct {
		tagValue string
		def      Action
		expected ResolvedAction
	}{
		{"true", ActionStart, ResolvedStart},
		{"start", ActionStart, ResolvedStart},
		{"auto", ActionStart, ResolvedStart},
		{"stop", ActionStart, ResolvedNone}, // explicit stop-only tag never triggers a start
		{"random", ActionStart, ResolvedNone},
		{"TRUE", ActionStart, ResolvedNone}, // matching is case-sensitive
		{"", ActionStart, ResolvedNone},

		{"true", ActionStop, ResolvedStop},
		{"stop", ActionStop, ResolvedStop},
		{"auto", ActionStop, ResolvedStop},
		{"start", ActionStop, ResolvedNone},
		{"random", ActionStop, ResolvedNone},
		{"", ActionStop, ResolvedNone},
	}

	for _, c := range cases {
		got := ResolveInstanceAction(c.tagValue, c.def)
		assert.Equal(c.expected, got, fmt.Sprintf("tag %q default %s", c.tagValue, c.def))
	}
}

func TestResolveInstanceActionPhaseDependent(t *testing.T) {
	assert := testify.New(t)

	// The same tag value resolves to opposite outcomes per phase
	assert.Equal(ResolvedStart, ResolveInstanceAction("auto", ActionStart))
	assert.Equal(ResolvedStop, ResolveInstanceAction("auto", ActionStop))
}

func TestNewTimePolicyValidation(t *testing.T) {
	assert := testify.New(t)

	_, err := NewTimePolicy(8, 18, 9)
	assert.NoError(err)

	_, err = NewTimePolicy(18, 8, 9)
	assert.Error(err, "inverted window must be rejected")

	_, err = NewTimePolicy(-1, 10, 9)
	assert.Error(err)

	_, err = NewTimePolicy(8, 24, 9)
	assert.Error(err, "hours must stay within [0,24)")

	_, err = NewTimePolicy(8, 8, 9)
	assert.Error(err, "empty window must be rejected")
}

func TestNextBoundary(t *testing.T) {
	assert := testify.New(t)
	policy := testPolicy()

	// Inside the window: next change is today's close
	boundary := policy.NextBoundary(weekdayAt(10))
	assert.Equal(weekdayAt(18), boundary)

	// After close: next change is tomorrow's open
	boundary = policy.NextBoundary(weekdayAt(20))
	assert.Equal(time.Date(2025, time.July, 10, 8, 0, 0, 0, jst), boundary)

	// Before open: next change is today's open
	boundary = policy.NextBoundary(weekdayAt(7))
	assert.Equal(weekdayAt(8), boundary)
}
