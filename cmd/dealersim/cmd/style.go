package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rustyeddy/dealersim/journal"
	"github.com/rustyeddy/dealersim/runner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func f4(x float64) string { return strconv.FormatFloat(x, 'f', 4, 64) }

// renderReports is the table printed after a run: one row per experiment
// describing the final period.
func renderReports(reports []runner.Report) string {
	t := newTable("Experiment", "Run ID", "Agents", "Results", "Final mean", "Final sd", "Min", "Max", "Elapsed")
	for _, r := range reports {
		row := []string{
			r.Run.Experiment,
			r.Run.RunID,
			strconv.Itoa(r.Run.Agents),
			strconv.Itoa(len(r.Results)),
		}
		if last, ok := r.Final(); ok {
			row = append(row, f4(last.Mean), f4(last.StdDev), f4(last.Min), f4(last.Max))
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		row = append(row, r.Elapsed.Round(time.Millisecond).String())
		t.Row(row...)
	}
	return t.String()
}

func renderRuns(runs []journal.Run) string {
	t := newTable("Run ID", "Experiment", "Created", "Seed", "Scale", "Sims", "Periods", "Agents", "Workers")
	for _, r := range runs {
		t.Row(
			r.RunID,
			r.Experiment,
			r.Created.Local().Format("2006-01-02 15:04:05"),
			strconv.FormatUint(r.Seed, 10),
			strconv.FormatFloat(r.PriceScale, 'g', -1, 64),
			strconv.Itoa(r.Simulations),
			strconv.Itoa(r.Periods),
			strconv.Itoa(r.Agents),
			strconv.Itoa(r.Workers),
		)
	}
	return t.String()
}

func renderRunHeader(r journal.Run) string {
	title := titleStyle.Render(fmt.Sprintf("%s (%s)", r.Experiment, r.RunID))
	detail := fmt.Sprintf("%d replications x %d periods, %d agents, price scale %g, seed %d",
		r.Simulations, r.Periods, r.Agents, r.PriceScale, r.Seed)
	return lipgloss.JoinVertical(lipgloss.Left, title, detail)
}

// renderSummary shows every Nth period plus the last one.
func renderSummary(summary []runner.PeriodSummary, every int) string {
	t := newTable("Period", "N", "Mean", "Std dev", "Min", "Max")
	for i, s := range summary {
		if i%every != 0 && i != len(summary)-1 {
			continue
		}
		t.Row(strconv.Itoa(s.Period), strconv.Itoa(s.N), f4(s.Mean), f4(s.StdDev), f4(s.Min), f4(s.Max))
	}
	return t.String()
}
