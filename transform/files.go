package transform

import (
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/file"
	"github.com/jsphweid/melodex/midi"
)

// ChangeTempoFile applies ChangeTempo to the file at path and writes the
// result into the configured output dir, returning the new path.
func ChangeTempoFile(path string, ratio float64) (string, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	out, err := ChangeTempo(s, ratio)
	if err != nil {
		return "", err
	}
	return writeResult(out, path, "tempo")
}

// TransposeFile applies Transpose to the file at path.
func TransposeFile(path string, delta int) (string, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	return writeResult(Transpose(s, delta), path, "transpose")
}

// SwingWarpFile applies SwingWarp to the file at path.
func SwingWarpFile(path string) (string, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	out, err := SwingWarp(s)
	if err != nil {
		return "", err
	}
	return writeResult(out, path, "swing")
}

func writeResult(s *smf.SMF, originalPath string, suffix string) (string, error) {
	outPath, err := file.NewOutputPath(constants.GetOutputDir(), originalPath, suffix)
	if err != nil {
		return "", err
	}
	if err := midi.WriteMidiFile(s, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
