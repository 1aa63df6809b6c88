package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/transform"
)

func init() {
	rootCmd.AddCommand(tempoCmd)
	rootCmd.AddCommand(transposeCmd)
	rootCmd.AddCommand(swingCmd)
}

var tempoCmd = &cobra.Command{
	Use:   "tempo <file> <ratio>",
	Short: "Scales a file's tempo by ratio",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratio, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return errors.Wrapf(model.ErrInvalidArgument, "bad ratio %v", args[1])
		}
		out, err := transform.ChangeTempoFile(args[0], ratio)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <file> <semitones>",
	Short: "Shifts every note by the given number of semitones",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(model.ErrInvalidArgument, "bad semitone delta %v", args[1])
		}
		out, err := transform.TransposeFile(args[0], delta)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var swingCmd = &cobra.Command{
	Use:   "swing <file>",
	Short: "Warps straight time into a long-short swing feel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := transform.SwingWarpFile(args[0])
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}
