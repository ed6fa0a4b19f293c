package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("36"))
	summaryCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
	summaryFailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203"))
)

// renderSummary formats one run's outcome for the terminal.
func renderSummary(summary *domain.RunSummary) string {
	var b strings.Builder

	elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(10 * time.Millisecond)
	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("%s (%s)", summary.Kind, elapsed)))
	b.WriteString("\n")
	b.WriteString(summaryCountStyle.Render(fmt.Sprintf(
		"  %d created, %d updated, %d skipped", summary.Created, summary.Updated, summary.Skipped)))
	b.WriteString("\n")

	if summary.Failed() > 0 {
		b.WriteString(summaryFailStyle.Render(fmt.Sprintf("  %d failed:", summary.Failed())))
		b.WriteString("\n")
		for _, failure := range summary.Failures {
			b.WriteString(summaryFailStyle.Render(fmt.Sprintf("    %s: %s", failure.Key, failure.Error)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
