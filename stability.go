package srri

import (
	"errors"

	"github.com/etnz/srri/date"
)

// stabilityWindow is the number of consecutive observations over which a
// risk score must hold to count as stable.
const stabilityWindow = 16

// ErrInsufficientHistory marks a series with fewer than stabilityWindow
// non-null scores. The entity is excluded from stability output, not failed.
var ErrInsufficientHistory = errors.New("insufficient history")

// Observation is one week's entry in a share class's risk-score series.
type Observation struct {
	Week string    // display label, "Week 12"
	Date date.Date // report date for that week, may be zero
	SRRI int       // 1..7, 0 when the cell was empty
}

// Stability is the outcome of analyzing one ordered series.
type Stability struct {
	Latest       int       // most recent non-null score
	Previous     int       // first score differing from Latest scanning backward, 0 if none ever differed
	ChangeWeek   string    // week label of the earliest point of the current run of Latest
	ChangeDate   date.Date // report date at that point
	Last16Stable bool
	Any16Stable  bool
	Count        int // non-null observations
}

// Analyze computes the rolling-window stability of one entity's ordered
// series, most recent last. Series with fewer than 16 non-null scores
// return ErrInsufficientHistory. Ties between duplicate week labels are
// irrelevant here: only positional order matters.
func Analyze(series []Observation) (Stability, error) {
	var present []Observation
	for _, obs := range series {
		if obs.SRRI != 0 {
			present = append(present, obs)
		}
	}

	s := Stability{Count: len(present)}
	if len(present) < stabilityWindow {
		return s, ErrInsufficientHistory
	}

	// Last16Stable: the final 16 non-null scores, nulls skipped, all equal.
	s.Last16Stable = true
	tail := present[len(present)-stabilityWindow:]
	for _, obs := range tail[1:] {
		if obs.SRRI != tail[0].SRRI {
			s.Last16Stable = false
			break
		}
	}

	// Any16Stable: a contiguous run of 16 identical non-null values
	// anywhere in the raw series. A null entry breaks the run.
	run, runValue := 0, 0
	for _, obs := range series {
		if obs.SRRI == 0 || obs.SRRI != runValue {
			run, runValue = 0, obs.SRRI
		}
		if obs.SRRI != 0 {
			run++
		}
		if run >= stabilityWindow {
			s.Any16Stable = true
			break
		}
	}

	s.Latest = present[len(present)-1].SRRI
	for i := len(present) - 2; i >= 0; i-- {
		if present[i].SRRI != s.Latest {
			s.Previous = present[i].SRRI
			// The observation after the last differing one opens the
			// current unbroken run of the latest value.
			s.ChangeWeek = present[i+1].Week
			s.ChangeDate = present[i+1].Date
			break
		}
	}

	return s, nil
}
