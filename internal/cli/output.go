package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trade-journal/internal/models"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && !noColor && cmd.OutOrStdout() == os.Stdout && isTerminal(),
	}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(color.FgGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(color.FgRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(color.FgYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.colored(color.FgCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.colored(color.Bold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(color.Faint, format, args...)
}

// paint returns a color that honours this output's color setting rather
// than the package-wide color.NoColor.
func (o *Output) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if o.colorEnabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// colored prints a colored message.
func (o *Output) colored(attr color.Attribute, format string, args ...interface{}) {
	o.paint(attr).Fprintln(o.writer, fmt.Sprintf(format, args...))
}

// ColoredString returns a colored string without newline.
func (o *Output) ColoredString(attr color.Attribute, text string) string {
	return o.paint(attr).Sprint(text)
}

// Green returns green colored text.
func (o *Output) Green(text string) string {
	return o.ColoredString(color.FgGreen, text)
}

// Red returns red colored text.
func (o *Output) Red(text string) string {
	return o.ColoredString(color.FgRed, text)
}

// Cyan returns cyan colored text.
func (o *Output) Cyan(text string) string {
	return o.ColoredString(color.FgCyan, text)
}

// BoldText returns bold text.
func (o *Output) BoldText(text string) string {
	return o.ColoredString(color.Bold, text)
}

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string {
	return o.ColoredString(color.FgYellow, text)
}

// DimText returns dimmed text.
func (o *Output) DimText(text string) string {
	return o.ColoredString(color.Faint, text)
}

// Check renders a checkbox.
func (o *Output) Check(on bool) string {
	if on {
		return o.Green("[x]")
	}
	return o.DimText("[ ]")
}

// DecisionText colors a decision: green for buys, red for sells, yellow
// otherwise.
func (o *Output) DecisionText(d *models.Decision) string {
	if d == nil {
		return o.DimText("not evaluated")
	}
	switch d.Kind {
	case models.DecisionBuy:
		return o.Green(d.String())
	case models.DecisionSell:
		return o.Red(d.String())
	}
	return o.Yellow(d.String())
}

// ShortDecision is the compact table form of a decision.
func (o *Output) ShortDecision(d *models.Decision) string {
	if d == nil {
		return o.DimText("-")
	}
	switch d.Kind {
	case models.DecisionBuy:
		return o.Green(fmt.Sprintf("BUY %d%%", d.RiskPercent))
	case models.DecisionSell:
		return o.Red(fmt.Sprintf("SELL %d%%", d.RiskPercent))
	case models.DecisionNoDirection:
		return o.Yellow("NO DIRECTION")
	}
	return o.Yellow("INCOMPLETE")
}

// StabilityText renders a difference score with its stability class.
func (o *Output) StabilityText(score *models.DifferenceScore) string {
	if score == nil {
		return o.DimText("-")
	}
	text := fmt.Sprintf("%+d %s", int(*score), score.Stability().Label())
	switch score.Stability() {
	case models.StabilityStable:
		return o.Green(text)
	case models.StabilityUnstable:
		return o.Red(text)
	}
	return o.Yellow(text)
}

// ScoreText renders a percentage score colored by band.
func (o *Output) ScoreText(p models.PercentScore) string {
	text := fmt.Sprintf("%d%%", int(p))
	switch p.Band() {
	case models.BandHigh:
		return o.Green(text)
	case models.BandMedium:
		return o.Yellow(text)
	}
	return o.Red(text)
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := displayWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)

	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - displayWidth(cell)
			if padding < 0 {
				padding = 0
			}
			padded := cell + strings.Repeat(" ", padding)
			if isHeader {
				padded = t.output.BoldText(padded)
			}
			parts = append(parts, padded)
		}
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	t.output.Println(t.output.DimText(strings.Join(parts, "──")))
}

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func displayWidth(s string) int {
	return len([]rune(stripANSI(s)))
}
