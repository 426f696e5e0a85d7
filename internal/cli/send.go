package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/wanderly/travelchat/internal/session"
)

func newSendCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "send [message...]",
		Short: "Send one message and print the assistant's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			ctrl := newController()

			probeCtx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctrl.Start(probeCtx)

			res := ctrl.Submit(cmd.Context(), message)
			if res.Rejection != session.RejectNone {
				return errors.New(res.Notice)
			}
			if res.Failed {
				return errors.New(res.Reply.Text)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Reply.Text)
			if res.Reply.HasResults() {
				v := gjson.ParseBytes(res.Reply.SearchResults)
				if v.IsArray() {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d search result(s) attached]\n", len(v.Array()))
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "probe-timeout", 5*time.Second, "connectivity probe timeout")
	return cmd
}
