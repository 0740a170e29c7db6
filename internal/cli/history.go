package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue/internal/recorder"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List recorded sessions or show one",
	Long: `Without arguments, list the most recent recorded sessions.
With a session ID (or "last"), print every recorded cycle and change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum sessions to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	db, err := openDB(stateFile)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	sessions := storage.NewSessionRepository(db)

	if len(args) == 0 {
		list, err := sessions.List(historyLimit)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No sessions recorded. Record one with: facevalue simulate --record <scenario.toml>")
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render("Recorded sessions"))
		for _, s := range list {
			cycles := "-"
			if s.CycleCount != nil {
				cycles = fmt.Sprintf("%d", *s.CycleCount)
			}
			fmt.Fprintf(out, "  %s  %s  %-20s offsets %-10s %-7s cycles %s\n",
				s.SessionID, s.StartedAt.Local().Format(time.DateTime), s.Name, s.Offsets, s.Policy, cycles)
		}
		return nil
	}

	id := args[0]
	if id == "last" {
		id = stateFile.LastSessionID()
		if id == "" {
			return fmt.Errorf("no session recorded yet")
		}
	}

	s, err := sessions.Get(id)
	if err != nil {
		return err
	}
	offsets, err := scenario.ParseOffsets(s.Offsets)
	if err != nil {
		return fmt.Errorf("session %s has bad offsets: %w", id, err)
	}
	layout := scenario.LayoutOf(offsets)

	cycles, err := storage.NewCycleRepository(db).GetBySession(id)
	if err != nil {
		return err
	}
	changes, err := storage.NewChangeRepository(db).GetBySession(id)
	if err != nil {
		return err
	}

	byCycle := make(map[int][]scenario.Change)
	for _, c := range changes {
		byCycle[c.CycleIndex] = append(byCycle[c.CycleIndex], toChange(c))
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", s.Name, s.SessionID)))
	fmt.Fprintln(out, statusStyle.Render(fmt.Sprintf("offsets %s, policy %s, started %s",
		s.Offsets, s.Policy, s.StartedAt.Local().Format(time.DateTime))))
	fmt.Fprintln(out)

	for _, c := range cycles {
		step := scenario.Step{Index: c.CycleIndex, Note: c.Note, Changes: byCycle[c.CycleIndex]}
		copy(step.Inputs[:], c.Inputs)
		copy(step.Outputs[:], c.Outputs)

		header := fmt.Sprintf("Cycle %d", c.CycleIndex+1)
		if c.Note != "" {
			header += " - " + c.Note
		}
		fmt.Fprintln(out, headerStyle.Render(header))
		fmt.Fprintln(out, renderStep(layout, step))
	}

	return nil
}
