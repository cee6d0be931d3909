package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
	"github.com/matzehuels/ramplegend/pkg/pipeline"
)

// frameInterval paces redraws while the anchor is animating.
const frameInterval = 40 * time.Millisecond

const defaultBarRows = 20

var (
	previewLabelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	previewActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	previewAnchorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <scene.toml>",
		Short: "Explore a scene's legend in the terminal",
		Long: `Draw the scene's legend in the terminal and move its anchor by hovering.

  ↑/↓ or k/j   hover the previous/next legend label
  ←/→ or h/l   hover the previous/next heatmap cell
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			m, err := newPreviewModel(cfg, time.Now, c.Logger)
			if err != nil {
				return err
			}
			defer m.scene.Close()

			c.Logger.Debug("starting preview", "ticks", len(m.scene.Legend.State().Ticks), "cells", len(m.scene.Cells))
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// frameMsg asks the preview to redraw the animating anchor.
type frameMsg time.Time

// PreviewModel is the bubbletea model behind the preview command. It drives
// the legend with the same hover events a chart host would emit.
type PreviewModel struct {
	scene  *pipeline.Scene
	colors *ramp.Ramp
	rows   int

	label int // hovered label, -1 for none
	cell  int // hovered cell in row order, -1 for none
	value float64
	moved bool

	// ticking is set while a frame chain is scheduled.
	ticking bool
}

func newPreviewModel(cfg *config.Scene, clock func() time.Time, logger *log.Logger) (PreviewModel, error) {
	sc, err := pipeline.BuildScene(cfg, pipeline.WithClock(clock), pipeline.WithLogger(logger))
	if err != nil {
		return PreviewModel{}, err
	}
	r, err := ramp.New(cfg.Plot.Colors, sc.Legend.State().Domain)
	if err != nil {
		sc.Close()
		return PreviewModel{}, err
	}
	return PreviewModel{scene: sc, colors: r, rows: defaultBarRows, label: -1, cell: -1}, nil
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			return m.hoverLabel(m.label - 1)
		case "down", "j":
			return m.hoverLabel(m.label + 1)
		case "left", "h":
			return m.hoverCell(m.cell - 1)
		case "right", "l":
			return m.hoverCell(m.cell + 1)
		}
	case tea.WindowSizeMsg:
		m.rows = max(5, min(defaultBarRows*2, msg.Height-6))
	case frameMsg:
		if m.scene.Legend.State().AnchorState() == surface.Animating {
			return m, nextFrame()
		}
		m.ticking = false
	}
	return m, nil
}

// startFrames schedules redraws unless a frame chain is already running.
func (m PreviewModel) startFrames() (tea.Model, tea.Cmd) {
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, nextFrame()
}

func (m PreviewModel) hoverLabel(i int) (tea.Model, tea.Cmd) {
	ticks := m.scene.Legend.State().Ticks
	if len(ticks) == 0 {
		return m, nil
	}
	i = max(0, min(len(ticks)-1, i))
	if !m.scene.HoverLabel(i) {
		return m, nil
	}
	m.label, m.cell = i, -1
	m.value, m.moved = ticks[i].Value, true
	return m.startFrames()
}

func (m PreviewModel) hoverCell(i int) (tea.Model, tea.Cmd) {
	rows := m.scene.Config.Data.Values
	cols := len(rows[0])
	i = max(0, min(len(rows)*cols-1, i))
	if !m.scene.Hover(i/cols, i%cols) {
		return m, nil
	}
	m.cell, m.label = i, -1
	m.value, m.moved = rows[i/cols][i%cols], true
	return m.startFrames()
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// anchorRow maps the anchor's current, possibly mid-animation, offset to a
// bar row.
func (m PreviewModel) anchorRow() int {
	st := m.scene.Legend.State()
	a := st.Anchor()
	if a == nil || st.Height <= 0 {
		return 0
	}
	row := int(math.Round(a.Matrix().F / st.Height * float64(m.rows-1)))
	return max(0, min(m.rows-1, row))
}

func (m PreviewModel) View() string {
	var b strings.Builder
	st := m.scene.Legend.State()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s legend", m.scene.Config.Plot.ColorField)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ labels  ←/→ cells  q quit"))
	b.WriteString("\n\n")

	labels := make(map[int]int, len(st.Ticks))
	for i, t := range st.Ticks {
		if st.Height > 0 {
			labels[int(math.Round(t.Pos/st.Height*float64(m.rows-1)))] = i
		}
	}

	anchor := m.anchorRow()
	for row := 0; row < m.rows; row++ {
		t := float64(row) / float64(m.rows-1)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(m.colors.ColorAt(t).Hex())).Render("    ")
		b.WriteString(swatch)

		if m.moved && row == anchor {
			b.WriteString(previewAnchorStyle.Render(" ◀"))
		} else {
			b.WriteString("  ")
		}
		if i, ok := labels[row]; ok {
			style := previewLabelStyle
			if i == m.label {
				style = previewActiveStyle
			}
			b.WriteString(" " + style.Render(st.Ticks[i].Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.moved {
		b.WriteString(StyleValue.Render(fmt.Sprintf("value %g", m.value)))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  ratio %.2f  %s", st.Ratio, st.AnchorState())))
	} else {
		b.WriteString(StyleDim.Render("hover a label or cell to move the anchor"))
	}
	b.WriteString("\n")
	return b.String()
}
