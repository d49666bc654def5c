// Package bot routes chat commands into the dashboard pipeline and reports
// every outcome back to the conversation. It owns no transport: replies go
// through a SendFunc supplied per invocation.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/criticalmass/grafbot/delivery"
	"github.com/criticalmass/grafbot/grafana"
)

const usage = "Usage:\n" +
	"  db <slug>[:<panel>] [<from>] [<to>] [<key>=<value> ...]\n" +
	"  list"

// listLimit caps the number of search entries in one chat message.
const listLimit = 50

// SendFunc delivers one reply message to the requesting conversation.
type SendFunc func(ctx context.Context, text string) error

type Handler struct {
	parser     grafana.Parser
	client     *grafana.Client
	urls       grafana.URLBuilder
	dispatcher *delivery.Dispatcher
	logger     *slog.Logger
}

func NewHandler(parser grafana.Parser, client *grafana.Client, dispatcher *delivery.Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		parser:     parser,
		client:     client,
		urls:       grafana.URLBuilder{Host: client.Host()},
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle executes one command invocation. Steps run strictly sequentially;
// panels are delivered in ordinal order because replies must arrive in that
// order. The returned error reports transport problems with send only —
// pipeline failures become reply messages, never errors.
func (h *Handler) Handle(ctx context.Context, text string, send SendFunc) error {
	logger := h.logger.With("invocation_id", uuid.NewString())

	keyword, tail := splitKeyword(text)
	switch keyword {
	case "db":
		return h.handleDashboard(ctx, logger, tail, send)
	case "list":
		return h.handleList(ctx, logger, send)
	default:
		return send(ctx, usage)
	}
}

func (h *Handler) handleDashboard(ctx context.Context, logger *slog.Logger, tail string, send SendFunc) error {
	query, err := h.parser.Parse(tail)
	if err != nil {
		if errors.Is(err, grafana.ErrInvalidCommand) {
			return send(ctx, usage)
		}
		return send(ctx, fmt.Sprintf("Error: %v", err))
	}
	logger.Info("command_parsed",
		"slug", query.Slug,
		"from", query.Range.From,
		"to", query.Range.To,
		"variables", len(query.Variables))

	def, err := h.client.Dashboard(ctx, query.Slug)
	if err != nil {
		logger.Warn("dashboard_fetch_error", "slug", query.Slug, "error", err.Error())
		var svcErr *grafana.ServiceError
		if errors.As(err, &svcErr) {
			return send(ctx, svcErr.Message)
		}
		return send(ctx, fmt.Sprintf("Error fetching dashboard %q: %v", query.Slug, err))
	}

	panels := grafana.Select(def, query.Selector)
	logger.Info("panels_selected", "slug", query.Slug, "count", len(panels))

	resolver := grafana.NewResolver(def.Templating)
	for _, np := range panels {
		title := resolver.Resolve(np.Panel.Title)
		urls := h.urls.Panel(def.RenderSegment, query.Slug, np.Panel.ID, query.Range, query.Variables)

		out := h.dispatcher.Deliver(ctx, urls.Render, urls.Link)
		var msg string
		if out.Delivered {
			msg = fmt.Sprintf("%s: %s - %s", title, out.DisplayURL, urls.Link)
		} else {
			msg = fmt.Sprintf("%s: [%s] - %s", title, out.Reason, out.FallbackLink)
		}
		if err := send(ctx, msg); err != nil {
			return fmt.Errorf("send panel message: %w", err)
		}
	}
	return nil
}

func (h *Handler) handleList(ctx context.Context, logger *slog.Logger, send SendFunc) error {
	entries, err := h.client.Search(ctx)
	if err != nil {
		logger.Warn("dashboard_list_error", "error", err.Error())
		return send(ctx, fmt.Sprintf("Error listing dashboards: %v", err))
	}

	var b strings.Builder
	b.WriteString("Available dashboards:\n")
	for i, e := range entries {
		if i >= listLimit {
			b.WriteString(fmt.Sprintf("... and %d more\n", len(entries)-listLimit))
			break
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", e.Slug, e.Title))
	}
	return send(ctx, strings.TrimRight(b.String(), "\n"))
}

func splitKeyword(text string) (keyword, tail string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexAny(text, " \n\t")
	if i == -1 {
		return strings.ToLower(text), ""
	}
	return strings.ToLower(text[:i]), strings.TrimSpace(text[i:])
}
