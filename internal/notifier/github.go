package notifier

import (
	"fmt"
	"os"
	"strings"
)

// GitHubActions appends a markdown step summary and step outputs to the files
// GitHub Actions exposes through GITHUB_STEP_SUMMARY and GITHUB_OUTPUT. An
// empty path disables that part.
type GitHubActions struct {
	SummaryPath string
	OutputPath  string
}

// NewGitHubActions creates a notifier for the given summary and output files.
func NewGitHubActions(summaryPath, outputPath string) *GitHubActions {
	return &GitHubActions{SummaryPath: summaryPath, OutputPath: outputPath}
}

// Enabled reports whether either file is configured.
func (g *GitHubActions) Enabled() bool {
	return g.SummaryPath != "" || g.OutputPath != ""
}

// Notify writes the summary on every run and the outputs only when concerts
// were added.
func (g *GitHubActions) Notify(report *Report) error {
	if g.SummaryPath != "" {
		if err := appendFile(g.SummaryPath, formatSummary(report)); err != nil {
			return fmt.Errorf("writing step summary: %w", err)
		}
	}

	if g.OutputPath != "" && len(report.Added) > 0 {
		if err := appendFile(g.OutputPath, formatOutputs(report)); err != nil {
			return fmt.Errorf("writing step outputs: %w", err)
		}
	}

	return nil
}

func formatSummary(report *Report) string {
	if len(report.Added) == 0 {
		return fmt.Sprintf("## Concert Schedule Check\n\nNo new concerts found. Currently tracking %d concerts.\n", report.Total)
	}

	var b strings.Builder
	b.WriteString("## Concert Schedule Updated\n\n")
	fmt.Fprintf(&b, "Added %d new concert(s):\n", len(report.Added))
	for _, name := range report.Names() {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	fmt.Fprintf(&b, "\nTotal concerts now: %d\n", report.Total)
	return b.String()
}

func formatOutputs(report *Report) string {
	names := strings.Join(report.Names(), ", ")
	// A newline would end the value early in the key=value format.
	names = strings.NewReplacer("\r", " ", "\n", " ").Replace(names)
	return fmt.Sprintf("new_concerts=true\nconcert_count=%d\nconcert_names=%s\n", len(report.Added), names)
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
