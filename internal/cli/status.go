package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wanderly/travelchat/internal/assistant"
	"github.com/wanderly/travelchat/internal/config"
	"github.com/wanderly/travelchat/internal/speech"
	"github.com/wanderly/travelchat/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and assistant service connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n\n", version.Info())

			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintf(out, "Config:  %s\n", path)
			fmt.Fprintf(out, "API:     %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "User:    %s\n", cfg.User.Name)

			rec := speech.NewCommandRecognizer(cfg.Speech.Command, cfg.Speech.Locale)
			if rec.Available() {
				fmt.Fprintf(out, "Speech:  %s (%s)\n", cfg.Speech.Command, cfg.Speech.Locale)
			} else {
				fmt.Fprintln(out, "Speech:  (unavailable)")
			}

			probe := assistant.NewProbe(cfg.API.BaseURL, log)
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if probe.Check(ctx) {
				fmt.Fprintln(out, "Service: connected")
			} else {
				fmt.Fprintln(out, "Service: disconnected")
			}

			return nil
		},
	}

	return cmd
}
