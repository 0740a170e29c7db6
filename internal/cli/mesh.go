package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/sim"
)

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Flood a value across a line of simulated devices",
	Long: `Build a line of devices (face 0 of each device wired to face 3 of the next),
inject a field value on face 3 of the first device, and print what every
device sends after each cycle.

Usage:
  facevalue mesh --devices 5 --offsets 0,3 --field 1 --value 4`,
	RunE: runMesh,
}

var (
	meshDevices int
	meshCycles  int
	meshOffsets string
	meshField   int
	meshValue   uint8
)

func init() {
	rootCmd.AddCommand(meshCmd)
	meshCmd.Flags().IntVarP(&meshDevices, "devices", "d", 4, "Number of devices in the line")
	meshCmd.Flags().IntVarP(&meshCycles, "cycles", "c", 0, "Cycles to run (default: one per device)")
	meshCmd.Flags().StringVarP(&meshOffsets, "offsets", "o", "0", "Comma separated field start offsets")
	meshCmd.Flags().IntVarP(&meshField, "field", "f", 0, "Field to inject")
	meshCmd.Flags().Uint8Var(&meshValue, "value", 1, "Value to inject")
}

func runMesh(cmd *cobra.Command, args []string) error {
	offsets, err := scenario.ParseOffsets(meshOffsets)
	if err != nil {
		return err
	}
	if meshDevices < 1 {
		return fmt.Errorf("need at least one device, got %d", meshDevices)
	}
	if meshField < 0 || meshField >= len(offsets) {
		return fmt.Errorf("field %d out of range for %d fields", meshField, len(offsets))
	}
	layout := scenario.LayoutOf(offsets)
	if meshValue >= 1<<layout.Width(meshField) {
		return fmt.Errorf("value %d does not fit in %d bits", meshValue, layout.Width(meshField))
	}

	cycles := meshCycles
	if cycles <= 0 {
		cycles = meshDevices
	}

	m := sim.Line(meshDevices)
	m.Device(0).Board.SetReceived(3, layout.Set(0, meshField, meshValue))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Line of %d devices", meshDevices)))
	fmt.Fprintln(out, statusStyle.Render(fmt.Sprintf("field %d = %d injected on 0:3", meshField, meshValue)))
	fmt.Fprintln(out)

	for i := 0; i < cycles; i++ {
		m.Step(layout, nil, facevalue.WithLogger(handlerLogger()))

		cells := make([]string, m.Len())
		for d := 0; d < m.Len(); d++ {
			v := layout.Field(m.Device(d).Board.Sent()[0], meshField)
			cell := fmt.Sprintf("%d", v)
			if v == meshValue {
				cell = changedStyle.Render(cell)
			}
			cells[d] = cell
		}
		fmt.Fprintf(out, "%s  %s\n", headerStyle.Render(fmt.Sprintf("cycle %2d", m.Cycles())), strings.Join(cells, " "))
	}

	return nil
}
