package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/tui/theme"
)

// Theme command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and select timeline themes",
	Long: `List and select timeline themes.

Built-in themes: dark, light. User themes are TOML files in
~/.timegraph/themes/; fields they leave out keep the dark theme's values.

Examples:
  timegraph theme list        # List all available themes
  timegraph theme set light   # Switch to a theme`,
	RunE: runThemeList,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Long:  `List all built-in and user themes. The active theme is marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the active theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeSet,
}

// runThemeList lists all available themes.
func runThemeList(cmd *cobra.Command, args []string) error {
	themes := theme.ListAvailable()
	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(themes)
	}

	active := appConfig.Theme
	if active == "" {
		active = theme.DefaultName
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range themes {
		mark := " "
		if t.Name == active {
			mark = "*"
		}
		kind := "user"
		if t.Embedded {
			kind = "built-in"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", mark, t.Name, kind, t.Description)
	}
	return w.Flush()
}

// runThemeSet sets the active theme.
func runThemeSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := theme.SetActive(name); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to: %s\n", name)
	return nil
}
