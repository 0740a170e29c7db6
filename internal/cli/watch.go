package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue/internal/recorder"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
)

var watchCmd = &cobra.Command{
	Use:   "watch <scenario.toml>",
	Short: "Step through a scenario interactively",
	Long: `Open an interactive view that plays a scenario one cycle at a time.

Keyboard shortcuts:
  SPACE/n - Next cycle
  p       - Play/pause
  r       - Restart from the first cycle
  +/-     - Faster/slower playback
  q/Esc   - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", time.Second, "Delay between cycles while playing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	runner, err := scenario.NewRunner(sc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(runner, watchInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

type watchTickMsg time.Time

type watchModel struct {
	runner   *scenario.Runner
	interval time.Duration
	last     *scenario.Step
	changes  int
	playing  bool
	quitting bool
}

func newWatchModel(runner *scenario.Runner, interval time.Duration) *watchModel {
	return &watchModel{
		runner:   runner,
		interval: interval,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return nil
}

func (m *watchModel) scheduleNext() tea.Cmd {
	if !m.playing || m.runner.Done() {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m *watchModel) advance() {
	if m.runner.Done() {
		m.playing = false
		return
	}
	step := m.runner.Next()
	m.last = &step
	m.changes += len(step.Changes)
	if m.runner.Done() {
		m.playing = false
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n":
			m.advance()

		case "p":
			m.playing = !m.playing && !m.runner.Done()
			return m, m.scheduleNext()

		case "r":
			m.runner.Reset()
			m.last = nil
			m.changes = 0

		case "+", "=":
			m.interval /= 2
			if m.interval < 50*time.Millisecond {
				m.interval = 50 * time.Millisecond
			}

		case "-":
			m.interval *= 2
			if m.interval > 10*time.Second {
				m.interval = 10 * time.Second
			}
		}

	case watchTickMsg:
		if m.playing {
			m.advance()
			return m, m.scheduleNext()
		}
	}

	return m, nil
}

func (m *watchModel) View() string {
	if m.quitting {
		return "Watch ended.\n"
	}

	sc := m.runner.Scenario()
	var b strings.Builder

	b.WriteString(titleStyle.Render(sc.Name))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("offsets %s, policy %s",
		recorder.FormatOffsets(sc.Offsets), sc.Policy)))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Cycle %d/%d", m.runner.Position(), len(sc.Cycles))
	if m.playing {
		progress += fmt.Sprintf(" [PLAYING %s]", m.interval)
	}
	if m.runner.Done() {
		progress += " [DONE]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf("  changes: %d\n\n", m.changes))

	if m.last != nil {
		if m.last.Note != "" {
			b.WriteString(headerStyle.Render(m.last.Note))
			b.WriteString("\n")
		}
		b.WriteString(renderStep(sc.Layout(), *m.last))
	} else {
		b.WriteString(statusStyle.Render("No cycle played yet."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("SPACE/n=next  p=play/pause  r=restart  +/-=speed  q=quit"))
	b.WriteString("\n")

	return b.String()
}
