package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleAggregator = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	styleKey        = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Resolution Table
// =============================================================================

// resolveRow is one line of the resolve report.
type resolveRow struct {
	Coord      string
	Repository string // "" when unresolved
	Aggregator bool
	URL        string
}

// printResolveTable renders rows as an aligned table. Column widths follow
// the widest coordinate and repository name.
func printResolveTable(w io.Writer, rows []resolveRow) {
	coordWidth, repoWidth := len("COORDINATE"), len("REPOSITORY")
	for _, r := range rows {
		coordWidth = max(coordWidth, len(r.Coord))
		repoWidth = max(repoWidth, len(r.Repository))
	}
	coordCol := lipgloss.NewStyle().Width(coordWidth + 2)
	repoCol := lipgloss.NewStyle().Width(repoWidth + 2)

	fmt.Fprintln(w, StyleTitle.Render(coordCol.Render("COORDINATE")+repoCol.Render("REPOSITORY")+"ARTIFACT"))
	for _, r := range rows {
		var b strings.Builder
		b.WriteString(coordCol.Render(r.Coord))
		switch {
		case r.Repository == "":
			b.WriteString(styleIconError.Render(iconError + " unresolved"))
		case r.Aggregator:
			b.WriteString(repoCol.Render(r.Repository))
			b.WriteString(styleAggregator.Render("(aggregator)"))
		default:
			b.WriteString(repoCol.Render(r.Repository))
			b.WriteString(StyleDim.Render(r.URL))
		}
		fmt.Fprintln(w, b.String())
	}
}
