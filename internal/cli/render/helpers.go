package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	tagStyle      = color.New(color.FgCyan, color.Bold)
	addressStyle  = color.New(color.FgWhite)
	hashStyle     = color.New(color.Faint)
	skippedStyle  = color.New(color.FgYellow)
	failedStyle   = color.New(color.FgRed)
	successStyle  = color.New(color.FgGreen)
	sectionStyle  = color.New(color.Bold, color.FgHiWhite)
	dryRunStyle   = color.New(color.FgMagenta, color.Bold)
	functionStyle = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep the innermost cause when the chain is long
	parts := strings.Split(message, ": ")
	msg := message
	if len(parts) > 3 {
		msg = strings.Join(parts[len(parts)-2:], ": ")
	}
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// JSON writes v as indented JSON
func JSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// newTable returns a borderless table writing to out
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	return t
}

// short abbreviates long hex strings to 0x1234…abcd
func short(hex string) string {
	if len(hex) <= 14 {
		return hex
	}
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// relPath returns path relative to the working directory when possible
func relPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

func dryRunBanner(out io.Writer, dryRun bool) {
	if dryRun {
		dryRunStyle.Fprintln(out, "[dry run] nothing was sent")
	}
}
