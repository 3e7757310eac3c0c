// Copyright 2025 The GardenWorker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/sched"
)

const (
	maxRecentCalls  = 50
	refreshInterval = time.Second
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// UI serves a live dashboard of pin states and recent tool calls to
// incoming SSH sessions.
type UI struct {
	log       zerolog.Logger
	hal       hal.API
	scheduler *sched.Scheduler

	mutex sync.Mutex
	calls []events.CallEvent
}

// New creates a dashboard UI around the given hardware.
func New(log zerolog.Logger, halAPI hal.API, scheduler *sched.Scheduler, bus *events.Bus) *UI {
	u := &UI{
		log:       log.With().Str("component", "ui").Logger(),
		hal:       halAPI,
		scheduler: scheduler,
	}
	if bus != nil {
		// The UI lives for the whole process, no need to cancel.
		bus.RegisterCallEventReceiver(u.onCallEvent)
	}
	return u
}

// Handler builds the Bubble Tea model for an incoming SSH session.
func (u *UI) Handler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := s.Pty()
	root := Root{
		ui:        u,
		term:      pty.Term,
		width:     pty.Window.Width,
		height:    pty.Window.Height,
		callsView: viewport.New(pty.Window.Width, 10),
	}
	return root, []tea.ProgramOption{tea.WithAltScreen()}
}

func (u *UI) onCallEvent(event events.CallEvent) error {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.calls = append(u.calls, event)
	if len(u.calls) > maxRecentCalls {
		u.calls = u.calls[len(u.calls)-maxRecentCalls:]
	}
	return nil
}

func (u *UI) recentCalls() []events.CallEvent {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	return append([]events.CallEvent(nil), u.calls...)
}

type pinRow struct {
	pin       model.Pin
	state     model.PinState
	countdown string
}

// Root is the top level dashboard model of a single session.
type Root struct {
	ui      *UI
	term    string
	width   int
	height  int
	loadAvg string

	pins      []pinRow
	calls     []events.CallEvent
	callsView viewport.Model
}

var _ tea.Model = Root{}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (r Root) Init() tea.Cmd {
	return func() tea.Msg { return refreshMsg(time.Now()) }
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (r Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		r = r.reload()
		return r, doRefresh()
	case tea.WindowSizeMsg:
		r.height = msg.Height
		r.width = msg.Width
		r = r.layout()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		}
	}

	// Handle keyboard and mouse events in the viewport
	var cmd tea.Cmd
	r.callsView, cmd = r.callsView.Update(msg)
	return r, cmd
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (r Root) View() string {
	var b strings.Builder
	b.WriteString(r.headerView())
	b.WriteString(r.pinsView())
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Recent tool calls"))
	b.WriteString("\n")
	b.WriteString(r.callsView.View())
	b.WriteString("\n\nq - Disconnect\n")
	return b.String()
}

func (r Root) headerView() string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("Welcome to GardenWorker!"),
		"  ",
		r.loadAvg,
	) + "\n\n"
}

func (r Root) pinsView() string {
	if len(r.pins) == 0 {
		return lowStyle.Render("No pins configured") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s %-8s %-6s %s", "PIN", "DIR", "VALUE", "AUTO-STOP")))
	b.WriteString("\n")
	for _, row := range r.pins {
		level := fmt.Sprintf("%-6s", model.LevelLabel(row.state.Value))
		if row.state.Value == 1 {
			level = highStyle.Render(level)
		} else {
			level = lowStyle.Render(level)
		}
		countdown := row.countdown
		if countdown == "" {
			countdown = "-"
		}
		fmt.Fprintf(&b, "%-5d %-8s %s %s\n", row.pin, row.state.Direction.Label(), level, countdown)
	}
	return b.String()
}

func (r Root) callLine(event events.CallEvent) string {
	text := event.Text
	if event.IsError {
		text = errorStyle.Render(text)
	}
	return fmt.Sprintf("%s %-16s %8s  %s",
		event.Time.Format("15:04:05"),
		event.Tool,
		event.Duration.Round(time.Millisecond),
		text)
}

// reload pulls a fresh snapshot of pins, pending stops and calls.
func (r Root) reload() Root {
	r.pins = r.pins[:0]
	for _, status := range r.ui.hal.Snapshot() {
		row := pinRow{pin: status.Pin, state: status.State}
		if r.ui.scheduler != nil {
			if due, found := r.ui.scheduler.Pending(status.Pin); found {
				remaining := time.Until(due).Round(time.Second)
				if remaining < 0 {
					remaining = 0
				}
				row.countdown = remaining.String()
			}
		}
		r.pins = append(r.pins, row)
	}
	if content, err := os.ReadFile("/proc/loadavg"); err == nil {
		r.loadAvg = strings.TrimSpace(string(content))
	}
	r.calls = r.ui.recentCalls()
	return r.layout()
}

// layout sizes the calls viewport and refills its content.
func (r Root) layout() Root {
	width := r.width
	if width <= 0 {
		width = 80
	}
	height := r.height - lipgloss.Height(r.headerView()) - lipgloss.Height(r.pinsView()) - 5
	if height < 3 {
		height = 3
	}
	r.callsView.Width = width
	r.callsView.Height = height

	lines := make([]string, 0, len(r.calls))
	for i := len(r.calls) - 1; i >= 0; i-- {
		// Newest first
		lines = append(lines, r.callLine(r.calls[i]))
	}
	if len(lines) == 0 {
		lines = append(lines, lowStyle.Render("No tool calls yet"))
	}
	r.callsView.SetContent(strings.Join(lines, "\n"))
	return r
}

type refreshMsg time.Time

func doRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
