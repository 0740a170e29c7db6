package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue/internal/scenario"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <value>...",
	Short: "Split face values into their fields",
	Long: `Decode one or more face value bytes using a field layout.

Values may be decimal, hex (0x25) or binary (0b100101).

Usage:
  facevalue decode --offsets 0,2,4 0x25
  facevalue decode --offsets 0,3 9 0b111000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

var decodeOffsets string

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeOffsets, "offsets", "o", "0", "Comma separated field start offsets")
}

func runDecode(cmd *cobra.Command, args []string) error {
	offsets, err := scenario.ParseOffsets(decodeOffsets)
	if err != nil {
		return err
	}
	layout := scenario.LayoutOf(offsets)

	out := cmd.OutOrStdout()
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid face value %q: %w", arg, err)
		}
		value := byte(v)

		fmt.Fprintf(out, "%s  0x%02X  0b%06b\n", titleStyle.Render(arg), value, value&0x3F)
		for field := 0; field < layout.NumFields(); field++ {
			fmt.Fprintf(out, "  field %d  bits [%d,%d)  = %d\n",
				field, layout.Offset(field), layout.Offset(field)+layout.Width(field), layout.Field(value, field))
		}
	}

	return nil
}
