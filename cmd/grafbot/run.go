package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/criticalmass/grafbot/bot"
	"github.com/criticalmass/grafbot/internal/slackclient"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [command]",
		Short: "Run one bot command and print the replies",
		Long: "Executes a single bot command, e.g.\n" +
			"  grafbot run \"db graphite-carbon-metrics:3 now-8d now-1d\"\n" +
			"  grafbot run list\n" +
			"Replies go to stdout, or to Slack when --slack-channel is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("missing command text")
			}

			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			handler, err := handlerFromCmd(cmd, logger)
			if err != nil {
				return err
			}

			send := bot.NewWriterSender(cmd.OutOrStdout())
			channel := strings.TrimSpace(flagOrViperString(cmd, "slack-channel", "slack.channel"))
			if channel != "" {
				slack := slackclient.New(
					&http.Client{Timeout: 30 * time.Second},
					flagOrViperString(cmd, "slack-base-url", "slack.base_url"),
					flagOrViperString(cmd, "slack-bot-token", "slack.bot_token"),
				)
				send = bot.NewSlackSender(slack, channel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return handler.Handle(ctx, text, send)
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().String("slack-channel", "", "Post replies to this Slack channel instead of stdout.")
	cmd.Flags().String("slack-base-url", "", "Slack API base URL.")
	cmd.Flags().String("slack-bot-token", "", "Slack bot token.")
	return cmd
}
