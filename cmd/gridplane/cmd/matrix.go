package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridplane/gridplane/bitpack"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Inspect and manipulate text matrix fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var matrixInfoCmd = &cobra.Command{
	Use:          "info <file>",
	Short:        "Report dimensions and set-bit statistics of a fixture",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMatrixFile(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dimensions: %dx%d\n", m.Width(), m.Height())
		fmt.Fprintf(out, "set bits:   %d\n", countBits(m))
		if rect, ok := m.EnclosingRectangle(); ok {
			fmt.Fprintf(out, "enclosing:  %dx%d at (%d,%d)\n", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
			tl, _ := m.TopLeftOnBit()
			br, _ := m.BottomRightOnBit()
			fmt.Fprintf(out, "first on:   (%d,%d)\n", tl.X, tl.Y)
			fmt.Fprintf(out, "last on:    (%d,%d)\n", br.X, br.Y)
		} else {
			fmt.Fprintln(out, "enclosing:  none (no set bits)")
		}
		return nil
	},
}

var matrixDiffCmd = &cobra.Command{
	Use:          "diff <a> <b>",
	Short:        "Report where two fixtures differ",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readMatrixFile(cmd, args[0])
		if err != nil {
			return err
		}
		b, err := readMatrixFile(cmd, args[1])
		if err != nil {
			return err
		}
		if a.Width() != b.Width() || a.Height() != b.Height() {
			return fmt.Errorf("matrices differ in size: %dx%d vs %dx%d",
				a.Width(), a.Height(), b.Width(), b.Height())
		}

		a.Xor(b)
		out := cmd.OutOrStdout()
		differing := countBits(a)
		fmt.Fprintf(out, "differing bits: %d\n", differing)
		if rect, ok := a.EnclosingRectangle(); ok {
			fmt.Fprintf(out, "difference region: %dx%d at (%d,%d)\n", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
		}
		return nil
	},
}

var matrixRotateCmd = &cobra.Command{
	Use:          "rotate <file>",
	Short:        "Rotate a fixture by a multiple of 90 degrees",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		degrees, _ := cmd.Flags().GetInt("degrees")
		if degrees%90 != 0 {
			return fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", degrees)
		}
		m, err := readMatrixFile(cmd, args[0])
		if err != nil {
			return err
		}
		m.Rotate(degrees)

		set, _ := cmd.Flags().GetString("set")
		unset, _ := cmd.Flags().GetString("unset")
		fmt.Fprint(cmd.OutOrStdout(), m.Text(set, unset))
		return nil
	},
}

// readMatrixFile parses a text fixture using the matrix command's tokens.
func readMatrixFile(cmd *cobra.Command, path string) (*bitpack.BitMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, _ := cmd.Flags().GetString("set")
	unset, _ := cmd.Flags().GetString("unset")
	m, err := bitpack.ParseText(string(data), set, unset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func countBits(m *bitpack.BitMatrix) int {
	n := 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				n++
			}
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.AddCommand(matrixInfoCmd)
	matrixCmd.AddCommand(matrixDiffCmd)
	matrixCmd.AddCommand(matrixRotateCmd)

	matrixCmd.PersistentFlags().String("set", "X ", "token for set cells in fixtures")
	matrixCmd.PersistentFlags().String("unset", "  ", "token for unset cells in fixtures")
	matrixRotateCmd.Flags().Int("degrees", 180, "counterclockwise rotation (multiple of 90)")
}
