package midi

import (
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	DefaultBPM = 120.0

	// DefaultMicrosPerQuarter is the microseconds per quarter note assumed
	// when a file carries no tempo event (500000 == 120 BPM).
	DefaultMicrosPerQuarter = 500000.0
)

func MicrosPerQuarter(bpm float64) float64 {
	return 60_000_000 / bpm
}

func BPMFromMicros(usPerQuarter float64) float64 {
	return 60_000_000 / usPerQuarter
}

// TicksToSeconds converts an absolute tick position to seconds under a fixed
// tempo. Callers must pass accumulated absolute positions, never individual
// delta-times, so rounding cannot compound.
func TicksToSeconds(res smf.MetricTicks, usPerQuarter float64, ticks int64) float64 {
	return float64(ticks) * usPerQuarter / (float64(res.Ticks4th()) * 1_000_000)
}

// SecondsToTicks is the inverse of TicksToSeconds. Rounding is math.Round,
// the single policy used for every tick conversion in this module.
func SecondsToTicks(res smf.MetricTicks, usPerQuarter float64, seconds float64) int64 {
	return int64(math.Round(seconds * float64(res.Ticks4th()) * 1_000_000 / usPerQuarter))
}
