package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/index"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/melody"
	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/search"
)

func init() {
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <database-root> <query.mid>",
	Short: "Finds indexed songs containing the query fragment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		defer log.Sync()

		idx, err := index.Load(index.PathFor(args[0]))
		if err != nil {
			return err
		}
		q, err := midi.ReadMidiFile(args[1])
		if err != nil {
			return err
		}

		query := melody.QuerySequence(q, log)
		matches := search.HardMatch(idx, query)
		log.Info("matched", zap.Int("songs", len(matches)), zap.Int("queryLength", len(query)))
		for _, path := range matches {
			fmt.Println(path)
		}
		return nil
	},
}
