package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/criticalmass/grafbot/bot"
	"github.com/criticalmass/grafbot/delivery"
	"github.com/criticalmass/grafbot/grafana"
)

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("grafana-host", "", "Dashboard service base URL.")
	cmd.Flags().String("grafana-api-key", "", "Dashboard service API key (bearer).")
	cmd.Flags().String("s3-bucket", "", "S3 bucket for uploaded panel images.")
	cmd.Flags().String("s3-region", "", "S3 region.")
	cmd.Flags().Bool("use-image-proxy", false, "Deliver via the image proxy service.")
	cmd.Flags().String("images-host", "", "Image proxy base URL.")
}

// handlerFromCmd resolves configuration once and builds the immutable
// pipeline; nothing downstream reads viper again.
func handlerFromCmd(cmd *cobra.Command, logger *slog.Logger) (*bot.Handler, error) {
	host := strings.TrimSpace(flagOrViperString(cmd, "grafana-host", "grafana.host"))
	if host == "" {
		return nil, fmt.Errorf("missing grafana.host (set via --grafana-host or %s_GRAFANA_HOST)", envPrefix)
	}
	apiKey := strings.TrimSpace(flagOrViperString(cmd, "grafana-api-key", "grafana.api_key"))

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := grafana.NewClient(httpClient, grafana.Config{Host: host, APIKey: apiKey})

	dispatcher, err := delivery.NewDispatcher(delivery.Config{
		S3: delivery.S3Config{
			Bucket:          strings.TrimSpace(flagOrViperString(cmd, "s3-bucket", "s3.bucket")),
			Region:          strings.TrimSpace(flagOrViperString(cmd, "s3-region", "s3.region")),
			AccessKeyID:     strings.TrimSpace(viper.GetString("s3.access_key_id")),
			SecretAccessKey: strings.TrimSpace(viper.GetString("s3.secret_access_key")),
			Prefix:          strings.TrimSpace(viper.GetString("s3.prefix")),
			Endpoint:        strings.TrimSpace(viper.GetString("s3.endpoint")),
		},
		UseImageProxy: flagOrViperBool(cmd, "use-image-proxy", "images.use_proxy"),
		ImagesHost:    strings.TrimSpace(flagOrViperString(cmd, "images-host", "images.host")),
		APIKey:        apiKey,
	}, httpClient, logger)
	if err != nil {
		return nil, err
	}

	parser := grafana.Parser{
		Defaults: grafana.TimeRange{
			From: queryDefaultFrom(viper.GetString("grafana.query_time_range")),
		},
	}
	return bot.NewHandler(parser, client, dispatcher, logger), nil
}
