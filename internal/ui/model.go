// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Shows pipeline state and counters, handles start/stop and quit keys
package ui

import (
	"fmt"
	"strings"

	"github.com/Sendspin/chunkstream/pkg/stream"
	tea "github.com/charmbracelet/bubbletea"
)

const boxWidth = 54

// Model represents the TUI state
type Model struct {
	controls *Controls

	// Output
	backend    string
	sampleRate int
	blockSize  int
	listen     string

	// Pipeline
	stats     stream.Stats
	clients   int
	lastError string

	// Runtime
	goroutines int
	memAlloc   uint64

	showDebug bool

	width  int
	height int
}

// InfoMsg describes the static output configuration
type InfoMsg struct {
	Backend    string
	SampleRate int
	BlockSize  int
	Listen     string
}

// StatsMsg carries a pipeline snapshot and runtime counters
type StatsMsg struct {
	Stats      stream.Stats
	Clients    int
	Goroutines int
	MemAlloc   uint64
}

// ErrorMsg shows the most recent asynchronous error
type ErrorMsg struct {
	Err error
}

// NewModel creates a new TUI model; ctrl may be nil
func NewModel(ctrl *Controls) Model {
	return Model{
		controls: ctrl,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case InfoMsg:
		m.applyInfo(msg)
	case StatsMsg:
		m.stats = msg.Stats
		m.clients = msg.Clients
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
	case ErrorMsg:
		if msg.Err != nil {
			m.lastError = msg.Err.Error()
		}
	}

	return m, nil
}

func (m *Model) applyInfo(msg InfoMsg) {
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
	}
	if msg.BlockSize != 0 {
		m.blockSize = msg.BlockSize
	}
	if msg.Listen != "" {
		m.listen = msg.Listen
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderBuffer())
	b.WriteString(m.renderStats())
	if m.showDebug {
		b.WriteString(m.renderDebug())
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func line(format string, args ...any) string {
	return fmt.Sprintf("│ %-*s │\n", boxWidth-4, truncate(fmt.Sprintf(format, args...), boxWidth-4))
}

func (m Model) renderHeader() string {
	stateIcon := "■"
	if m.stats.State == stream.Running {
		stateIcon = "▶"
	}

	s := "┌─ chunkstream " + strings.Repeat("─", boxWidth-16) + "┐\n"
	s += line("State:  %s %s", stateIcon, m.stats.State)
	s += line("Output: %s %dHz mono, %d frames/block", m.backend, m.sampleRate, m.blockSize)
	if m.listen != "" {
		s += line("Ingest: ws://%s/stream (%d clients)", m.listen, m.clients)
	}
	s += "├" + strings.Repeat("─", boxWidth-2) + "┤\n"
	return s
}

func (m Model) renderBuffer() string {
	// Two seconds of audio fills the bar
	bar := renderBar(m.stats.BufferedMs, 2000, 20)
	s := line("Buffer: [%s] %dms", bar, m.stats.BufferedMs)
	s += line("Queue:  %d chunks waiting", m.stats.QueuedChunks)
	return s
}

func (m Model) renderStats() string {
	st := m.stats
	s := "├" + strings.Repeat("─", boxWidth-2) + "┤\n"
	s += line("Chunks: RX %d  OK %d  PCM %d", st.ChunksReceived, st.ChunksDecoded, st.ChunksFallback)
	s += line("        dropped %d  rejected %d", st.ChunksDropped, st.ChunksRejected)
	s += line("Blocks: %d  underruns %d  warnings %d", st.Callbacks, st.Underruns(), st.DeviceWarnings)
	if m.lastError != "" {
		s += line("Last error: %s", m.lastError)
	}
	return s
}

func (m Model) renderDebug() string {
	s := line("DEBUG:")
	s += line("  Goroutines: %d", m.goroutines)
	s += line("  Heap: %.1f MiB", float64(m.memAlloc)/(1<<20))
	s += line("  Samples played: %d", m.stats.SamplesPlayed)
	return s
}

func (m Model) renderHelp() string {
	s := "├" + strings.Repeat("─", boxWidth-2) + "┤\n"
	s += line("space:Start/Stop  d:Debug  q:Quit")
	s += "└" + strings.Repeat("─", boxWidth-2) + "┘\n"
	return s
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "space", "s":
		if m.controls != nil {
			select {
			case m.controls.Toggle <- struct{}{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len([]rune(s)) <= length {
		return s
	}
	r := []rune(s)
	return string(r[:length-3]) + "..."
}
