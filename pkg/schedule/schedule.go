package schedule

import (
	"fmt"
	"time"

	"github.com/namelessknight/autostartstop/pkg/holiday"
)

// Action is the fleet-wide default action derived once per invocation
type Action int

const (
	ActionStart Action = iota
	ActionStop
)

func (a Action) String() string {
	if a == ActionStart {
		return "start"
	}
	return "stop"
}

// ResolvedAction is the per-instance outcome of matching a tag value
// against the default action
type ResolvedAction int

const (
	ResolvedNone ResolvedAction = iota
	ResolvedStart
	ResolvedStop
)

func (a ResolvedAction) String() string {
	switch a {
	case ResolvedStart:
		return "start"
	case ResolvedStop:
		return "stop"
	default:
		return "none"
	}
}

// TimePolicy defines the active-hours window and the timezone it is
// evaluated in
type TimePolicy struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// NewTimePolicy builds a policy with a fixed UTC offset timezone
func NewTimePolicy(startHour, endHour, utcOffsetHours int) (TimePolicy, error) {
	p := TimePolicy{
		StartHour: startHour,
		EndHour:   endHour,
		Location:  time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600),
	}
	if err := p.Validate(); err != nil {
		return TimePolicy{}, err
	}
	return p, nil
}

// Validate checks the hour-window invariant: 0 <= start < end < 24
func (p TimePolicy) Validate() error {
	if p.StartHour < 0 || p.StartHour > 23 || p.EndHour < 0 || p.EndHour > 23 {
		return fmt.Errorf("hours must be within [0,24): start=%d end=%d", p.StartHour, p.EndHour)
	}
	if p.StartHour >= p.EndHour {
		return fmt.Errorf("start hour %d must be before end hour %d", p.StartHour, p.EndHour)
	}
	if p.Location == nil {
		return fmt.Errorf("policy has no timezone")
	}
	return nil
}

// NextBoundary returns the next instant at which the time-derived default
// action flips, in the policy's timezone
func (p TimePolicy) NextBoundary(now time.Time) time.Time {
	local := now.In(p.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)

	candidates := []time.Time{
		midnight.Add(time.Duration(p.StartHour) * time.Hour),
		midnight.Add(time.Duration(p.EndHour) * time.Hour),
		midnight.AddDate(0, 0, 1).Add(time.Duration(p.StartHour) * time.Hour),
	}
	for _, c := range candidates {
		if c.After(local) {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// DeriveDefaultAction returns start during the active-hours window and
// stop outside it. The hour is taken in the policy's timezone, never the
// host's local time.
func DeriveDefaultAction(now time.Time, policy TimePolicy) Action {
	hour := now.In(policy.Location).Hour()
	if hour >= policy.StartHour && hour < policy.EndHour {
		return ActionStart
	}
	return ActionStop
}

// IsRestDay reports whether the local date is a weekend day or a listed
// holiday. The weekend check does not depend on the holiday fetch having
// succeeded.
func IsRestDay(now time.Time, policy TimePolicy, holidays holiday.Set) bool {
	local := now.In(policy.Location)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	return holidays.Contains(local)
}

// ApplyRestDayOverride forces the default action to stop on rest days.
// Instances are never auto-started on a day nobody is expected to use
// them, but anything left running is still shut down.
func ApplyRestDayOverride(def Action, rest bool) Action {
	if rest {
		return ActionStop
	}
	return def
}

// ResolveInstanceAction matches an instance's tag value against the
// default action. Matching is exact and case-sensitive. Each tag
// interpretation is only consulted in its own phase: "stop" during a
// start window resolves to none, not to a pre-emptive stop.
func ResolveInstanceAction(tagValue string, def Action) ResolvedAction {
	switch def {
	case ActionStart:
		switch tagValue {
		case "true", "start", "auto":
			return ResolvedStart
		}
	case ActionStop:
		switch tagValue {
		case "true", "stop", "auto":
			return ResolvedStop
		}
	}
	return ResolvedNone
}
