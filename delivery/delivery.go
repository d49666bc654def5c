// Package delivery turns a rendered panel URL into something the requesting
// conversation can see: the URL itself, a proxied public image, or an
// object-storage upload. Exactly one strategy is active per process.
package delivery

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Outcome reports one panel's delivery. Either DisplayURL is set
// (Delivered=true) or Reason plus FallbackLink describe the failure. A
// failed outcome never aborts the remaining panels of the same command.
type Outcome struct {
	Delivered    bool
	DisplayURL   string
	Reason       string
	FallbackLink string
}

func delivered(url string) Outcome {
	return Outcome{Delivered: true, DisplayURL: url}
}

func failed(reason, link string) Outcome {
	return Outcome{Reason: reason, FallbackLink: link}
}

// Strategy delivers one rendered panel image.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, renderURL, linkURL string) Outcome
}

type Config struct {
	S3 S3Config
	// UseImageProxy enables the image-proxy strategy when S3 is not
	// configured.
	UseImageProxy bool
	ImagesHost    string
	// APIKey is forwarded as a bearer token both when fetching the render
	// URL and when calling the image proxy.
	APIKey string
}

// Dispatcher owns the strategy chosen at startup. Precedence: S3 when
// bucket and both keys are configured, else the image proxy when enabled,
// else pass-through.
type Dispatcher struct {
	strategy Strategy
	logger   *slog.Logger
}

func NewDispatcher(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Dispatcher, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	var strategy Strategy
	switch {
	case cfg.S3.enabled():
		up, err := newS3Strategy(cfg.S3, httpClient, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		strategy = up
	case cfg.UseImageProxy:
		strategy = &imageProxyStrategy{
			http:   httpClient,
			host:   strings.TrimRight(strings.TrimSpace(cfg.ImagesHost), "/"),
			apiKey: strings.TrimSpace(cfg.APIKey),
		}
	default:
		strategy = passThroughStrategy{}
	}

	logger.Info("delivery_strategy_selected", "strategy", strategy.Name())
	return &Dispatcher{strategy: strategy, logger: logger}, nil
}

func (d *Dispatcher) StrategyName() string { return d.strategy.Name() }

func (d *Dispatcher) Deliver(ctx context.Context, renderURL, linkURL string) Outcome {
	out := d.strategy.Deliver(ctx, renderURL, linkURL)
	if out.Delivered {
		d.logger.Debug("panel_delivered", "strategy", d.strategy.Name(), "display_url", out.DisplayURL)
	} else {
		d.logger.Warn("panel_delivery_failed", "strategy", d.strategy.Name(), "reason", out.Reason)
	}
	return out
}
