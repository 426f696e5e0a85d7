package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/wanderly/travelchat/internal/assistant"
	"github.com/wanderly/travelchat/internal/domain"
	"github.com/wanderly/travelchat/internal/session"
	"github.com/wanderly/travelchat/internal/speech"
	"github.com/wanderly/travelchat/internal/tui"
)

func newChatCmd() *cobra.Command {
	var userName string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := userName
			if name == "" {
				name = cfg.User.Name
			}

			ctrl := newController()
			user := domain.User{Name: name}
			logout := func() {
				log.Info().Str("user", user.Name).Msg("logged out")
			}

			p := tea.NewProgram(tui.New(ctrl, user, logout), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&userName, "user", "", "display name for this session")
	return cmd
}

// newController wires a fresh session from the loaded config.
func newController() *session.Controller {
	client := assistant.NewHTTPClient(cfg.API.BaseURL, log)
	probe := assistant.NewProbe(cfg.API.BaseURL, log)
	rec := speech.NewCommandRecognizer(cfg.Speech.Command, cfg.Speech.Locale)
	voice := speech.NewAdapter(rec, log)
	return session.NewController(session.New(), client, probe, voice, log)
}
