package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/snapshot"
)

// checkpointInterval is how often (in frames) the player takes a full
// snapshot while advancing forward, so scrubbing backward only ever
// has to replay at most this many frames from the nearest checkpoint
// instead of restarting the whole sequence.
const checkpointInterval = 60

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	regStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// model is the bubbletea state for the playback viewer: the live
// console plus the recorded sequence it's scrubbing through and the
// checkpoints taken along the way.
type model struct {
	nes *core.Core
	seq []joyinput.Frame

	cur         int // frame the console is currently sitting at (0 = not yet run)
	checkpoints map[int][]byte

	status   string
	quitting bool
	progress progress.Model
}

func newModel(nes *core.Core, seq []joyinput.Frame) model {
	checkpoints := map[int][]byte{0: snapshot.Full(nes)}
	return model{
		nes:         nes,
		seq:         seq,
		checkpoints: checkpoints,
		progress:    progress.New(progress.WithDefaultGradient()),
		status:      "ready",
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "right", "l":
			m.seekTo(m.cur + 1)
		case "left", "h":
			m.seekTo(m.cur - 1)
		case "L":
			m.seekTo(m.cur + 10)
		case "H":
			m.seekTo(m.cur - 10)
		case "g":
			m.seekTo(0)
		case "G":
			m.seekTo(len(m.seq))
		}
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// seekTo moves the console to frame target (clamped to the sequence
// bounds): it replays forward from the current position when
// possible, or from the nearest checkpoint at or before target
// otherwise, recording a fresh checkpoint every checkpointInterval
// frames it passes through.
func (m *model) seekTo(target int) {
	if target < 0 {
		target = 0
	}
	if target > len(m.seq) {
		target = len(m.seq)
	}
	if target == m.cur {
		return
	}

	start := m.cur
	if target < m.cur {
		start = m.nearestCheckpoint(target)
		if err := snapshot.Deserialize(m.nes, m.checkpoints[start]); err != nil {
			m.status = fmt.Sprintf("seek error: %v", err)
			return
		}
		m.cur = start
	}

	for m.cur < target {
		m.nes.EmulateFrame(m.seq[m.cur])
		m.cur++
		if m.cur%checkpointInterval == 0 {
			m.checkpoints[m.cur] = snapshot.Full(m.nes)
		}
	}
	m.status = "ready"
}

// nearestCheckpoint returns the largest checkpointed frame number at
// or before target.
func (m *model) nearestCheckpoint(target int) int {
	best := 0
	for f := range m.checkpoints {
		if f <= target && f > best {
			best = f
		}
	}
	return best
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("nesplay") + "\n\n")

	total := len(m.seq)
	pct := 0.0
	if total > 0 {
		pct = float64(m.cur) / float64(total)
	}
	b.WriteString(fmt.Sprintf("frame %d/%d\n", m.cur, total))
	b.WriteString(m.progress.ViewAs(pct) + "\n\n")

	cpu := m.nes.CPU()
	b.WriteString(regStyle.Render(fmt.Sprintf(
		"PC=%04X A=%02X X=%02X Y=%02X SP=%02X P=%02X",
		cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.P)) + "\n")
	b.WriteString(fmt.Sprintf("cpu errors: %d   checkpoints: %d\n\n", m.nes.RunErrors(), len(m.checkpoints)))

	b.WriteString(dimStyle.Render(m.status) + "\n")
	b.WriteString(dimStyle.Render("←/→ step  H/L jump 10  g/G ends  q quit"))
	return b.String()
}
