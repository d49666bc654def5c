package bot

import (
	"context"
	"fmt"
	"io"

	"github.com/criticalmass/grafbot/internal/slackclient"
	"github.com/criticalmass/grafbot/internal/telegramclient"
)

// NewWriterSender prints replies to w, one message per line block. Used by
// the one-shot CLI command.
func NewWriterSender(w io.Writer) SendFunc {
	return func(_ context.Context, text string) error {
		_, err := fmt.Fprintln(w, text)
		return err
	}
}

// NewSlackSender posts replies to a fixed Slack channel.
func NewSlackSender(client *slackclient.Client, channelID string) SendFunc {
	return func(ctx context.Context, text string) error {
		return client.PostMessage(ctx, channelID, text)
	}
}

// NewTelegramSender replies to a fixed Telegram chat. Web-page previews are
// disabled so multi-link panel messages don't unfurl twice.
func NewTelegramSender(client *telegramclient.Client, chatID int64) SendFunc {
	return func(ctx context.Context, text string) error {
		return client.SendMessage(ctx, chatID, text, true)
	}
}
