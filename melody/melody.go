package melody

import (
	"math"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
)

// DefaultTolerance is how long (in seconds) two notes may overlap before a
// track is judged polyphonic.
const DefaultTolerance = 0.1

// TrackName returns the text of the track's first track-name meta event,
// or "" for an unnamed track.
func TrackName(track smf.Track) string {
	for _, ev := range track {
		var name string
		if ev.Message.GetMetaTrackName(&name) {
			return name
		}
	}
	return ""
}

type namedTrack struct {
	name  string // lower-cased
	index int
	track smf.Track
}

// ExtractMelody picks the track most likely to carry the tune and reduces it
// to a pitch sequence. Tracks are tried in three tiers by name ("melody" or
// exactly "mel", then "lead", then everything else); within a tier the
// longest strictly monophonic sequence longer than 3 notes wins, earliest
// track breaking ties. If no tier produces one, a single track named exactly
// MELODY (the POP909 convention, where the melody line carries overlapping
// grace notes) is re-extracted with the monophonicity gate disabled.
// The result may be empty; that is a valid, matchless outcome.
func ExtractMelody(s *smf.SMF, log *zap.Logger) model.PitchSequence {
	res, err := midi.Resolution(s)
	if err != nil {
		log.Warn("cannot extract melody", zap.Error(err))
		return model.PitchSequence{}
	}
	usPerQuarter := midi.MicrosPerQuarter(midi.GetFileMeta(s).BPM)

	remaining := make([]namedTrack, 0, len(s.Tracks))
	for i, t := range s.Tracks {
		remaining = append(remaining, namedTrack{
			name:  strings.ToLower(TrackName(t)),
			index: i,
			track: t,
		})
	}

	tiers := []func(name string) bool{
		func(name string) bool { return strings.Contains(name, "melody") || name == "mel" },
		func(name string) bool { return strings.Contains(name, "lead") },
		func(name string) bool { return true },
	}

	for _, matches := range tiers {
		var candidates, rest []namedTrack
		for _, nt := range remaining {
			if matches(nt.name) {
				candidates = append(candidates, nt)
			} else {
				rest = append(rest, nt)
			}
		}
		if seq := tryTracks(candidates, res, usPerQuarter, log); seq != nil {
			return seq
		}
		remaining = rest
	}

	var fallback []smf.Track
	for _, t := range s.Tracks {
		if TrackName(t) == "MELODY" {
			fallback = append(fallback, t)
		}
	}
	if len(fallback) == 1 {
		log.Warn("melody track is not strictly monophonic, extracting anyway")
		seq, _ := ExtractPitchSequence(fallback[0], res, usPerQuarter, math.Inf(1), log)
		return seq
	}

	names := make([]string, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		names = append(names, TrackName(t))
	}
	log.Warn("no melody track found", zap.Strings("tracks", names))
	return model.PitchSequence{}
}

func tryTracks(candidates []namedTrack, res smf.MetricTicks, usPerQuarter float64, log *zap.Logger) model.PitchSequence {
	var best model.PitchSequence
	for _, nt := range candidates {
		seq, mono := ExtractPitchSequence(nt.track, res, usPerQuarter, DefaultTolerance, log)
		if !mono || len(seq) <= 3 {
			continue
		}
		// strictly longer, so the earliest track wins ties
		if len(seq) > len(best) {
			best = seq
		}
	}
	return best
}

// ExtractPitchSequence walks the track in order and collects one note number
// per onset. The second return is false when the track turned out to be
// polyphonic: some other note was still sounding at least toleranceSec past
// its own onset when a note ended. Onset times assume the tempo is fixed for
// the whole track at usPerQuarter.
func ExtractPitchSequence(track smf.Track, res smf.MetricTicks, usPerQuarter float64, toleranceSec float64, log *zap.Logger) (model.PitchSequence, bool) {
	var seq model.PitchSequence
	active := make(map[uint8]float64)

	var absTicks int64
	for _, ev := range track {
		absTicks += int64(ev.Delta)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
			if _, ok := active[key]; ok {
				// re-trigger of a note that never ended
				continue
			}
			seq = append(seq, int(key))
			active[key] = midi.TicksToSeconds(res, usPerQuarter, absTicks)
		case ev.Message.GetNoteOff(&ch, &key, &vel),
			ev.Message.GetNoteOn(&ch, &key, &vel): // velocity-0 note-on
			if _, ok := active[key]; !ok {
				log.Debug("note off for inactive note", zap.Uint8("note", key))
				continue
			}
			delete(active, key)
			now := midi.TicksToSeconds(res, usPerQuarter, absTicks)
			for _, onset := range active {
				if now-onset >= toleranceSec {
					return nil, false
				}
			}
		}
	}
	return seq, true
}

// QuerySequence reduces a query segment to a pitch sequence: the first track
// yielding any onsets wins, with no monophonicity gate applied.
func QuerySequence(s *smf.SMF, log *zap.Logger) model.PitchSequence {
	res, err := midi.Resolution(s)
	if err != nil {
		log.Warn("cannot extract query sequence", zap.Error(err))
		return model.PitchSequence{}
	}
	usPerQuarter := midi.MicrosPerQuarter(midi.GetFileMeta(s).BPM)

	for _, track := range s.Tracks {
		if seq, _ := ExtractPitchSequence(track, res, usPerQuarter, math.Inf(1), log); len(seq) > 0 {
			return seq
		}
	}
	return model.PitchSequence{}
}
