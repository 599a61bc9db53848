package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridplane/gridplane/warp"
)

var rectifyCmd = &cobra.Command{
	Use:   "rectify <image>",
	Short: "Project a symbol region back onto a rectangular module grid",
	Long: `Rectify thresholds an image, builds the projective map from the four
detected corner points of a symbol, and samples one bit per module into a
clean grid.

Corners are given in image pixels, ordered top-left, top-right,
bottom-right, bottom-left.

Examples:
  gridplane rectify photo.jpg --corners 102,48,390,60,401,352,95,344 --grid 21x21
  gridplane rectify scan.png --corners 0,0,210,0,210,210,0,210 --grid 21x21 --format png --output grid.png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, "binarizer", "max-size")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cornersFlag, _ := cmd.Flags().GetString("corners")
		gridFlag, _ := cmd.Flags().GetString("grid")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		set, _ := cmd.Flags().GetString("set")
		unset, _ := cmd.Flags().GetString("unset")

		corners, err := parseQuad(cornersFlag)
		if err != nil {
			return err
		}
		dimX, dimY, err := parseGrid(gridFlag)
		if err != nil {
			return err
		}

		source, err := loadSource(args[0], viper.GetInt("max_size"))
		if err != nil {
			return err
		}
		matrix, err := blackMatrix(viper.GetString("binarizer"), source)
		if err != nil {
			return err
		}

		gridCorners := warp.Quad{
			{0, 0},
			{float64(dimX), 0},
			{float64(dimX), float64(dimY)},
			{0, float64(dimY)},
		}
		start := time.Now()
		var sampler warp.PerspectiveSampler
		grid, err := sampler.Sample(matrix, dimX, dimY, gridCorners, corners)
		if err != nil {
			if errors.Is(err, warp.ErrNotFound) {
				return fmt.Errorf("symbol not rectifiable at the given corners: %w", err)
			}
			return err
		}
		slog.Debug("grid sampled",
			"modules_x", dimX,
			"modules_y", dimY,
			"duration", time.Since(start))

		return emitMatrix(grid, format, output, set, unset)
	},
}

func init() {
	rootCmd.AddCommand(rectifyCmd)

	rectifyCmd.Flags().String("corners", "", "detected corner points x0,y0,x1,y1,x2,y2,x3,y3 (required)")
	rectifyCmd.Flags().String("grid", "", "module grid dimensions WxH (required)")
	rectifyCmd.Flags().String("binarizer", binarizerAdaptive, "thresholding strategy (histogram, adaptive)")
	rectifyCmd.Flags().Int("max-size", 0, "downscale images whose longer side exceeds this many pixels (0 = never)")
	rectifyCmd.Flags().StringP("format", "f", formatText, "output format (text, png)")
	rectifyCmd.Flags().StringP("output", "o", "", "output file (default: stdout for text)")
	rectifyCmd.Flags().String("set", "X ", "token for set modules in text output")
	rectifyCmd.Flags().String("unset", "  ", "token for unset modules in text output")

	if err := rectifyCmd.MarkFlagRequired("corners"); err != nil {
		panic(err)
	}
	if err := rectifyCmd.MarkFlagRequired("grid"); err != nil {
		panic(err)
	}
}
