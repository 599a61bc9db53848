package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var binarizeCmd = &cobra.Command{
	Use:   "binarize <image>",
	Short: "Threshold an image to black and white",
	Long: `Binarize runs the thresholding stage alone and emits the black/white
matrix, as delimited text or as a PNG with one pixel per input pixel.

Examples:
  gridplane binarize scan.png
  gridplane binarize photo.jpg --binarizer adaptive --format png --output bw.png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, "binarizer", "max-size")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		set, _ := cmd.Flags().GetString("set")
		unset, _ := cmd.Flags().GetString("unset")

		source, err := loadSource(args[0], viper.GetInt("max_size"))
		if err != nil {
			return err
		}
		matrix, err := blackMatrix(viper.GetString("binarizer"), source)
		if err != nil {
			return err
		}
		return emitMatrix(matrix, format, output, set, unset)
	},
}

func init() {
	rootCmd.AddCommand(binarizeCmd)

	binarizeCmd.Flags().String("binarizer", binarizerAdaptive, "thresholding strategy (histogram, adaptive)")
	binarizeCmd.Flags().Int("max-size", 0, "downscale images whose longer side exceeds this many pixels (0 = never)")
	binarizeCmd.Flags().StringP("format", "f", formatText, "output format (text, png)")
	binarizeCmd.Flags().StringP("output", "o", "", "output file (default: stdout for text)")
	binarizeCmd.Flags().String("set", "X ", "token for dark pixels in text output")
	binarizeCmd.Flags().String("unset", "  ", "token for light pixels in text output")
}
