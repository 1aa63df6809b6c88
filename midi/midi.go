package midi

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/melodex/model"
)

// ReadMidiFile parses the file at path into an SMF.
// gomidi panics on some malformed inputs
// (https://github.com/gomidi/midi/issues/20), so the recover maps those to
// a Corrupt error as well.
func ReadMidiFile(path string) (s *smf.SMF, e error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrapf(model.ErrCorrupt, "parsing %v: %v", path, r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(model.ErrNotFound, "midi file %v", path)
		}
		return nil, errors.Wrapf(model.ErrInternal, "reading midi file %v: %v", path, err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrapf(model.ErrCorrupt, "parsing %v: %v", path, err)
	}

	return res, nil
}

// WriteMidiFile serializes s to path, creating or truncating it.
func WriteMidiFile(s *smf.SMF, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "creating %v: %v", path, err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return errors.Wrapf(model.ErrInternal, "writing %v: %v", path, err)
	}
	return nil
}

// Resolution returns the file's ticks per quarter note.
func Resolution(s *smf.SMF) (smf.MetricTicks, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, errors.Wrapf(model.ErrCorrupt, "unsupported time format %v", s.TimeFormat)
	}
	return mt, nil
}

// GetFileMeta returns the tempo and time signature taken from the first such
// events found anywhere in the file, defaulting to 120 BPM and 4/4. The scan
// stops as soon as both are known.
func GetFileMeta(s *smf.SMF) model.FileMeta {
	meta := model.FileMeta{BPM: DefaultBPM, Numerator: 4, Denominator: 4}
	var haveTempo, haveSig bool

	for _, track := range s.Tracks {
		for _, ev := range track {
			var bpm float64
			var num, denom, cpt, dsqpq uint8
			if !haveTempo && ev.Message.GetMetaTempo(&bpm) {
				meta.BPM = bpm
				haveTempo = true
			}
			if !haveSig && ev.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq) {
				meta.Numerator = int(num)
				meta.Denominator = int(denom)
				haveSig = true
			}
			if haveTempo && haveSig {
				return meta
			}
		}
	}
	return meta
}
