package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/dataset"
	"github.com/jsphweid/melodex/index"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
)

var datasetFlavor string

func init() {
	indexCmd.Flags().StringVar(&datasetFlavor, "dataset", "maestro",
		"dataset layout: maestro, pop909 or flat")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <database-root>",
	Short: "Builds the melody index for a dataset",
	Long: `Builds the melody index for a dataset: extracts a melody pitch
sequence from every MIDI file under the database root and persists the
path-to-sequence mapping as JSON next to the data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		defer log.Sync()
		return runIndex(args[0], datasetFlavor, log)
	},
}

func runIndex(root string, flavor string, log *zap.Logger) error {
	var paths []string
	var err error
	switch flavor {
	case "maestro":
		paths, err = dataset.IterMaestro(root)
	case "pop909":
		paths, err = dataset.IterPOP909(root)
	case "flat":
		paths, err = dataset.GatherAllMidiPaths(root, 0)
	default:
		return errors.Wrapf(model.ErrInvalidArgument, "unknown dataset flavor %v", flavor)
	}
	if err != nil {
		return err
	}

	idx, sum := index.Build(root, paths, log)
	indexPath := index.PathFor(root)
	if err := index.Save(idx, indexPath); err != nil {
		return err
	}

	log.Info("index built",
		zap.Int("indexed", sum.Indexed),
		zap.Int("skipped", sum.Skipped),
		zap.String("path", indexPath))
	return nil
}
