package transform

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/util"
)

// ChangeTempo returns a copy of s whose playback speed is scaled by ratio.
// When the file carries at least one tempo event, every tempo's microseconds
// per quarter note is divided by ratio (clamped to a minimum of 1µs). When
// there is no tempo event at all, every delta-time is rescaled instead; no
// tempo event is synthesized.
func ChangeTempo(s *smf.SMF, ratio float64) (*smf.SMF, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, errors.Wrapf(model.ErrInvalidArgument, "ratio must be > 0, got %v", ratio)
	}
	if hasTempoEvent(s) {
		return scaleTempoEvents(s, ratio), nil
	}
	return scaleDeltaTimes(s, ratio), nil
}

func hasTempoEvent(s *smf.SMF) bool {
	var bpm float64
	for _, track := range s.Tracks {
		for _, ev := range track {
			if ev.Message.GetMetaTempo(&bpm) {
				return true
			}
		}
	}
	return false
}

func scaleTempoEvents(s *smf.SMF, ratio float64) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var newTrack smf.Track
		for _, ev := range track {
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) {
				us := math.Round(midi.MicrosPerQuarter(bpm) / ratio)
				us = math.Max(us, 1)
				ev.Message = smf.MetaTempo(midi.BPMFromMicros(us))
			}
			newTrack = append(newTrack, ev)
		}
		res.Tracks = append(res.Tracks, newTrack)
	}
	return &res
}

func scaleDeltaTimes(s *smf.SMF, ratio float64) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var newTrack smf.Track
		// exact new position; integer deltas are derived only at emission
		// so rounding error cannot accumulate across events
		var pos float64
		var emitted int64
		for _, ev := range track {
			pos += float64(ev.Delta) / ratio
			delta := int64(math.Round(pos)) - emitted
			if delta < 0 {
				delta = 0
			}
			ev.Delta = uint32(delta)
			emitted += delta
			newTrack = append(newTrack, ev)
		}
		res.Tracks = append(res.Tracks, newTrack)
	}
	return &res
}

// Transpose returns a copy of s with every note event shifted by delta
// semitones, clamped to the 0..127 note range. No other event is touched.
func Transpose(s *smf.SMF, delta int) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var newTrack smf.Track
		for _, ev := range track {
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				ev.Message = smf.Message(gomidi.NoteOn(ch, clampNote(int(key)+delta), vel))
			case ev.Message.GetNoteOff(&ch, &key, &vel):
				ev.Message = smf.Message(gomidi.NoteOffVelocity(ch, clampNote(int(key)+delta), vel))
			}
			newTrack = append(newTrack, ev)
		}
		res.Tracks = append(res.Tracks, newTrack)
	}
	return &res
}

func clampNote(n int) uint8 {
	return uint8(util.Clamp(n, 0, 127))
}

// SwingWarp returns a copy of s with every event remapped onto a long-short
// swing grid derived from the file's meter: the first half of each beat is
// stretched over its first two thirds and the second half compressed into
// the last third. Event order at equal warped positions follows the original
// order, which keeps same-tick note-offs ahead of note-ons.
func SwingWarp(s *smf.SMF) (*smf.SMF, error) {
	res, err := midi.Resolution(s)
	if err != nil {
		return nil, err
	}
	meta := midi.GetFileMeta(s)

	beatTicks := float64(res.Ticks4th())
	measureTicks := beatTicks * float64(meta.Numerator) * 4 / float64(meta.Denominator)

	var out smf.SMF
	out.TimeFormat = s.TimeFormat
	for _, track := range s.Tracks {
		out.Tracks = append(out.Tracks, warpTrack(track, beatTicks, measureTicks))
	}
	return &out, nil
}

type positioned struct {
	abs int64
	idx int
	ev  smf.Event
}

func warpTrack(track smf.Track, beatTicks float64, measureTicks float64) smf.Track {
	if beatTicks <= 0 {
		return append(smf.Track{}, track...)
	}

	events := make([]positioned, 0, len(track))
	var abs int64
	for i, ev := range track {
		abs += int64(ev.Delta)
		events = append(events, positioned{
			abs: warpTick(abs, beatTicks, measureTicks),
			idx: i,
			ev:  ev,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].abs != events[j].abs {
			return events[i].abs < events[j].abs
		}
		return events[i].idx < events[j].idx
	})

	var newTrack smf.Track
	var last int64
	for _, p := range events {
		delta := p.abs - last
		if delta < 0 {
			delta = 0
		}
		p.ev.Delta = uint32(delta)
		newTrack = append(newTrack, p.ev)
		last = p.abs
	}
	return newTrack
}

func warpTick(abs int64, beatTicks float64, measureTicks float64) int64 {
	t := float64(abs)
	measureIdx := math.Floor(t / measureTicks)
	inMeasure := t - measureIdx*measureTicks
	beatIdx := math.Floor(inMeasure / beatTicks)
	inBeat := inMeasure - beatIdx*beatTicks

	half := beatTicks / 2
	var warped float64
	if inBeat <= half {
		warped = inBeat * (2.0 / 3.0) / 0.5
	} else {
		warped = (2.0/3.0)*beatTicks + (inBeat-half)*(1.0/3.0)/0.5
	}
	return int64(math.Round(measureIdx*measureTicks + beatIdx*beatTicks + warped))
}
