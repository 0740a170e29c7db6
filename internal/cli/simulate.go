package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/logging"
	"github.com/SeamusWaldron/facevalue/internal/recorder"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.toml>",
	Short: "Run a scenario through the change detector",
	Long: `Play every cycle of a scenario file on a simulated device and print the
inputs, outputs and detected changes of each cycle.

Scenario files are TOML:

  name = "wake up"
  offsets = [0, 2, 4]
  policy = "flood"        # flood, absorb or mirror

  [[cycle]]
  inputs = [0x25, 0, 0, 0, 0, 0]

Use --record to store the run in the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

var simulateRecord bool

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolVarP(&simulateRecord, "record", "r", false, "Record the run to the database")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	runner, err := scenario.NewRunner(sc, facevalue.WithLogger(handlerLogger()))
	if err != nil {
		return err
	}

	var session *recorder.Session
	if simulateRecord {
		stateFile, err := recorder.NewDefaultStateFile()
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		db, err := openDB(stateFile)
		if err != nil {
			return err
		}
		defer db.Close()

		session = recorder.NewSession(db, stateFile)
		id, err := session.Start(sc)
		if err != nil {
			return err
		}
		l := logging.Logger()
		l.Info().Str("session", id).Str("db", db.Path()).Msg("recording")
	}

	out := cmd.OutOrStdout()
	layout := runner.Scenario().Layout()
	fmt.Fprintln(out, titleStyle.Render(sc.Name))
	fmt.Fprintln(out, statusStyle.Render(fmt.Sprintf("offsets %s, policy %s, %d cycles",
		recorder.FormatOffsets(sc.Offsets), sc.Policy, len(sc.Cycles))))
	fmt.Fprintln(out)

	changes := 0
	for !runner.Done() {
		step := runner.Next()
		changes += len(step.Changes)

		header := fmt.Sprintf("Cycle %d", step.Index+1)
		if step.Note != "" {
			header += " - " + step.Note
		}
		fmt.Fprintln(out, headerStyle.Render(header))
		fmt.Fprintln(out, renderStep(layout, step))

		if session != nil {
			if err := session.Record(step); err != nil {
				return fmt.Errorf("failed to record cycle %d: %w", step.Index+1, err)
			}
		}
	}

	if session != nil {
		if err := session.End(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded session %s\n", session.SessionID())
	}
	fmt.Fprintf(out, "%d cycles, %d changes\n", len(sc.Cycles), changes)

	return nil
}
