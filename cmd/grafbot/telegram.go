package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/criticalmass/grafbot/bot"
	"github.com/criticalmass/grafbot/internal/telegramclient"
)

func newTelegramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Serve bot commands over Telegram long-polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(flagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
			}
			baseURL := flagOrViperString(cmd, "telegram-base-url", "telegram.base_url")
			pollTimeout := flagOrViperDuration(cmd, "telegram-poll-timeout", "telegram.poll_timeout")
			if pollTimeout <= 0 {
				pollTimeout = 30 * time.Second
			}

			allowed := map[int64]bool{}
			for _, s := range flagOrViperStringArray(cmd, "telegram-allowed-chat-id", "telegram.allowed_chat_ids") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid telegram.allowed_chat_ids entry %q: %w", s, err)
				}
				allowed[id] = true
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

			api := telegramclient.New(&http.Client{Timeout: 90 * time.Second}, baseURL, token)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("telegram_start", "poll_timeout", pollTimeout.String(), "allowed_chats", len(allowed))

			var offset int64
			for {
				updates, next, err := api.GetUpdates(ctx, offset, pollTimeout)
				if err != nil {
					if ctx.Err() != nil {
						logger.Info("telegram_stop")
						return nil
					}
					logger.Warn("telegram_get_updates_error", "error", err.Error())
					select {
					case <-ctx.Done():
						logger.Info("telegram_stop")
						return nil
					case <-time.After(2 * time.Second):
					}
					continue
				}
				offset = next

				for _, u := range updates {
					if u.Message == nil {
						continue
					}
					chatID := u.Message.Chat.ID
					if len(allowed) > 0 && !allowed[chatID] {
						logger.Warn("telegram_unauthorized_chat", "chat_id", chatID)
						continue
					}
					text, ok := commandText(u.Message.Text)
					if !ok {
						continue
					}

					// Panels of one command must arrive in order, so each
					// update is handled to completion before the next.
					send := bot.NewTelegramSender(api, chatID)
					if err := handler.Handle(ctx, text, send); err != nil {
						logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
					}
				}
			}
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("telegram-base-url", "", "Telegram API base URL.")
	cmd.Flags().Duration("telegram-poll-timeout", 30*time.Second, "Long-poll timeout for getUpdates.")
	cmd.Flags().StringArray("telegram-allowed-chat-id", nil, "Restrict the bot to these chat ids (repeatable).")
	return cmd
}

// commandText extracts the bot command from a Telegram message. Accepted
// forms: "/db ...", "/list" (with optional @BotName suffix), or the bare
// "db ..." / "list" grammar in a direct chat.
func commandText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if strings.HasPrefix(text, "/") {
		keyword, rest := splitFirstToken(text[1:])
		if at := strings.IndexByte(keyword, '@'); at >= 0 {
			keyword = keyword[:at]
		}
		switch strings.ToLower(keyword) {
		case "db", "list", "help":
			return strings.TrimSpace(keyword + " " + rest), true
		default:
			return "", false
		}
	}
	keyword, _ := splitFirstToken(text)
	switch strings.ToLower(keyword) {
	case "db", "list", "help":
		return text, true
	default:
		return "", false
	}
}

func splitFirstToken(text string) (first, rest string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexAny(text, " \n\t")
	if i == -1 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}
