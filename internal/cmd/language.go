package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/i18n"
)

var languageCmd = &cobra.Command{
	Use:   "language [lang]",
	Short: "Get or set the display language",
	Long: `Get or set the display language. Use a BCP 47 tag (e.g., en, zh-Hans).

The ` + i18n.EnvLang + ` environment variable overrides the setting.

Examples:
  timegraph language          # show current and available languages
  timegraph language zh-Hans  # set to Chinese (Simplified)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Fprintf(out, "Current language: %s\n", i18n.ResolveLocale(cfg.Language))
			fmt.Fprintf(out, "Available: %s\n", strings.Join(i18n.Languages(), ", "))
			return nil
		}

		cfg.Language = args[0]
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Language set to: %s\n", args[0])
		return nil
	},
}
