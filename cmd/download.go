package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/dataset"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
)

var (
	downloadURL    string
	downloadSHA256 string
)

func init() {
	downloadCmd.Flags().StringVar(&downloadURL, "url", dataset.MaestroURL,
		"archive to fetch (https:// or s3://)")
	downloadCmd.Flags().StringVar(&downloadSHA256, "sha256", "",
		"expected SHA-256 of the archive, verified when set")
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <dest-dir>",
	Short: "Downloads and extracts a MIDI dataset archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		defer log.Sync()

		archive, err := dataset.Download(downloadURL, args[0], log)
		if err != nil {
			return err
		}
		if downloadSHA256 != "" {
			ok, err := dataset.VerifyChecksum(archive, downloadSHA256)
			if err != nil {
				return err
			}
			if !ok {
				return errors.Wrapf(model.ErrCorrupt, "checksum mismatch for %v", archive)
			}
			log.Info("checksum verified", zap.String("archive", archive))
		}
		return nil
	},
}
