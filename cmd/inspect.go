package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/melodex/melody"
	"github.com/jsphweid/melodex/midi"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints a file's resolution, meta and per-track summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}

	meta := midi.GetFileMeta(s)
	fmt.Printf("timeFormat: %v\n", s.TimeFormat)
	fmt.Printf("tempo: %.2f bpm\n", meta.BPM)
	fmt.Printf("timeSignature: %v/%v\n", meta.Numerator, meta.Denominator)
	fmt.Printf("tracks: %v\n", len(s.Tracks))

	for i, track := range s.Tracks {
		name := melody.TrackName(track)
		if name == "" {
			name = "(unnamed)"
		}
		var notes int
		for _, ev := range track {
			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				notes++
			}
		}
		fmt.Printf("  track %v: %v, %v events, %v note onsets\n", i, name, len(track), notes)
	}
	return nil
}
