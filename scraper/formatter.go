package scraper

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/sejmscraper/sejm"
)

const maxTitleWidth = 80

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	futureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
)

// ConsoleFormatter renders listings and run summaries for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatBanner renders the startup banner
func (f *ConsoleFormatter) FormatBanner(version, outputDir string, opts Options) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Sejm transcript scraper"))
	if version != "" {
		sb.WriteString(dimStyle.Render(" " + version))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Term: %d | PDFs: %s | Statements: %s\n", opts.Term, yesNo(opts.PDFs), yesNo(opts.Statements))
	fmt.Fprintf(&sb, "Output: %s\n", outputDir)

	return sb.String()
}

// FormatTerms formats the list of terms
func (f *ConsoleFormatter) FormatTerms(terms []sejm.Term) string {
	if len(terms) == 0 {
		return "No terms found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Terms (%d):", len(terms))))

	for i, term := range terms {
		prefix := treePrefix(i == len(terms)-1)
		to := term.To
		if to == "" {
			to = "now"
		}
		fmt.Fprintf(&sb, "%s Term %d: %s - %s", prefix, term.Num, term.From, to)
		if term.Current {
			sb.WriteString(" " + currentStyle.Render("(current)"))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSessions formats a term overview
func (f *ConsoleFormatter) FormatSessions(term int, sessions []SessionSummary) string {
	if len(sessions) == 0 {
		return fmt.Sprintf("No sessions found for term %d", term)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Sessions of term %d (%d):", term, len(sessions))))

	var future int
	for i, s := range sessions {
		isLast := i == len(sessions)-1
		fmt.Fprintf(&sb, "%s Session %d", treePrefix(isLast), s.Number)
		if s.Current {
			sb.WriteString(" " + currentStyle.Render("[current]"))
		}
		if s.Future {
			future++
			sb.WriteString(" " + futureStyle.Render("[future]"))
		}
		sb.WriteString("\n")

		indent := "│   "
		if isLast {
			indent = "    "
		}
		if s.Title != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, TruncateTitle(s.Title, maxTitleWidth))
		}
		if len(s.Dates) > 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, dimStyle.Render("Dates: "+strings.Join(s.Dates, ", ")))
		}
	}

	fmt.Fprintf(&sb, "\n%d sessions, %d in the future\n", len(sessions), future)
	return sb.String()
}

// FormatStats renders the final statistics of a run
func (f *ConsoleFormatter) FormatStats(stats RunStats) string {
	var sb strings.Builder

	sb.WriteString("\n" + titleStyle.Render("Summary") + "\n")
	fmt.Fprintf(&sb, "  Sessions processed:  %d\n", stats.SessionsProcessed)
	fmt.Fprintf(&sb, "  Future skipped:      %d\n", stats.FutureSkipped)
	if stats.Incomplete > 0 {
		fmt.Fprintf(&sb, "  Without dates:       %d\n", stats.Incomplete)
	}
	fmt.Fprintf(&sb, "  PDFs downloaded:     %d\n", stats.PDFsDownloaded)
	fmt.Fprintf(&sb, "  Statements saved:    %d\n", stats.StatementsSaved)
	fmt.Fprintf(&sb, "  Errors:              %d\n", stats.Errors)

	if stats.Failed() {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Finished with %d errors, see the log for details", stats.Errors)))
	} else {
		sb.WriteString(successStyle.Render("Finished without errors"))
	}
	sb.WriteString("\n")

	return sb.String()
}

// TruncateTitle shortens title to at most width runes, ending with "..."
func TruncateTitle(title string, width int) string {
	runes := []rune(title)
	if len(runes) <= width {
		return title
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func treePrefix(isLast bool) string {
	if isLast {
		return "╰──"
	}
	return "├──"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
