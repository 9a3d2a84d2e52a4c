package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// RenderConfig renders the local config
func RenderConfig(out io.Writer, result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintln(out, FormatWarning(fmt.Sprintf("No local config at %s, showing defaults", relPath(result.ConfigPath))))
	} else {
		fmt.Fprintf(out, "Config: %s\n", relPath(result.ConfigPath))
	}
	keyStyle := color.New(color.FgCyan)
	for _, key := range config.ValidConfigKeys() {
		value := result.Config.Get(key)
		if value == "" {
			value = hashStyle.Sprint("(unset)")
		}
		fmt.Fprintf(out, "  %s %s\n", keyStyle.Sprintf("%-16s", string(key)), value)
	}
	return nil
}

// RenderConfigSet renders a config update
func RenderConfigSet(out io.Writer, result *usecase.SetConfigResult) error {
	fmt.Fprintln(out, FormatSuccess(fmt.Sprintf("Set %s = %s", result.Key, result.Value)))
	fmt.Fprintf(out, "Config saved to: %s\n", relPath(result.ConfigPath))
	return nil
}

// RenderConfigRemove renders a config removal
func RenderConfigRemove(out io.Writer, result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintln(out, FormatWarning(fmt.Sprintf("%s was not set", result.Key)))
		return nil
	}
	fmt.Fprintln(out, FormatSuccess(fmt.Sprintf("Removed %s (was %s)", result.Key, result.RemovedValue)))
	fmt.Fprintf(out, "Config saved to: %s\n", relPath(result.ConfigPath))
	return nil
}
