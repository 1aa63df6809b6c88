package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "melodex",
	Short: "Symbolic music transforms and melody retrieval",
	Long: `melodex transforms MIDI files (tempo scaling, transposition, swing
time-warping) and retrieves songs from an indexed corpus by melodic fragment.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
