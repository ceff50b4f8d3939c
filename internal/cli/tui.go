package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/geofig/pkg/pipeline"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	barFullStyle    = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// BatchModel - live batch progress
// =============================================================================

// figureDoneMsg reports one finished figure to the batch model.
type figureDoneMsg struct {
	done, total int
	res         *pipeline.Result
}

// batchDoneMsg ends the program once RunBatch has returned.
type batchDoneMsg struct{}

// BatchModel is the bubbletea model showing batch progress: a bar, running
// counts, and the most recent figures.
type BatchModel struct {
	Total    int
	Done     int
	Rendered int
	Degraded int
	Failed   int
	Recent   []*pipeline.Result
	Width    int
	Start    time.Time

	// Aborted is set when the user pressed ctrl+c.
	Aborted bool
	abort   func()
}

// recentLimit is how many finished figures the view lists.
const recentLimit = 8

// NewBatchModel creates a model for total figures. abort is called when
// the user quits early.
func NewBatchModel(total int, abort func()) BatchModel {
	return BatchModel{Total: total, Width: 40, Start: time.Now(), abort: abort}
}

func (m BatchModel) Init() tea.Cmd {
	return nil
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			if m.abort != nil {
				m.abort()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Width = max(10, min(60, msg.Width-30))
	case figureDoneMsg:
		m.Done = msg.done
		switch {
		case msg.res.Failed():
			m.Failed++
		case msg.res.Metadata.Degraded:
			m.Degraded++
			m.Rendered++
		default:
			m.Rendered++
		}
		m.Recent = append(m.Recent, msg.res)
		if len(m.Recent) > recentLimit {
			m.Recent = m.Recent[len(m.Recent)-recentLimit:]
		}
	case batchDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering figures"))
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.Done, m.Total, m.Width))
	fmt.Fprintf(&b, " %s/%d  %s\n\n",
		StyleNumber.Render(fmt.Sprint(m.Done)), m.Total,
		listDimStyle.Render(time.Since(m.Start).Round(100*time.Millisecond).String()))

	for _, res := range m.Recent {
		icon, style := styleIconSuccess.Render(iconSuccess), listNormalStyle
		switch {
		case res.Failed():
			icon, style = styleIconError.Render(iconError), listDimStyle
		case res.Metadata.Degraded:
			icon = styleIconWarning.Render(iconWarning)
		}
		fmt.Fprintf(&b, "%s %s %s\n", icon, style.Render(fmt.Sprintf("%-24s", res.ID)), listDimStyle.Render(string(res.Type)))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s rendered  %s degraded  %s failed   %s\n",
		StyleSuccess.Render(fmt.Sprint(m.Rendered)),
		StyleWarning.Render(fmt.Sprint(m.Degraded)),
		styleIconError.Render(fmt.Sprint(m.Failed)),
		listDimStyle.Render("q quit"))

	return b.String()
}

// progressBar draws done/total as a bar width cells wide.
func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) + listDimStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// Summary Table
// =============================================================================

// summaryTable renders the batch totals and one row per figure that did
// not render cleanly.
func summaryTable(results []*pipeline.Result) string {
	st := pipeline.Summarize(results)

	rows := [][]string{}
	for _, res := range results {
		if res == nil || (!res.Failed() && !res.Metadata.Degraded) {
			continue
		}
		outcome, detail := "degraded", ""
		if res.Failed() {
			outcome = "failed at " + res.Stage
			detail = string(res.Metadata.FailureKind)
		}
		if len(res.Metadata.Diagnostics) > 0 {
			d := res.Metadata.Diagnostics[0]
			if detail != "" {
				detail += ": "
			}
			detail += d.Message
		}
		rows = append(rows, []string{res.ID, string(res.Type), outcome, truncate(detail, 60)})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d figures  %s %d rendered  %s %d degraded  %s %d failed  %s %d memo\n",
		styleIconInfo.Render(iconInfo), st.Total,
		styleIconSuccess.Render(iconSuccess), st.Rendered,
		styleIconWarning.Render(iconWarning), st.Degraded,
		styleIconError.Render(iconError), st.Failed,
		styleCached.Render(iconArrow), st.CacheHit)
	if len(rows) == 0 {
		return b.String()
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Figure", "Type", "Outcome", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				if strings.HasPrefix(rows[row][2], "failed") {
					return lipgloss.NewStyle().Foreground(colorRed)
				}
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
