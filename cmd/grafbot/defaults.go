package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Dashboard service
	viper.SetDefault("grafana.host", "http://localhost:3000")
	viper.SetDefault("grafana.api_key", "")
	viper.SetDefault("grafana.query_time_range", "6h")

	// Delivery: S3 strategy wins when bucket + both keys are set, then the
	// image proxy, then pass-through.
	viper.SetDefault("s3.bucket", "")
	viper.SetDefault("s3.region", "us-standard")
	viper.SetDefault("s3.access_key_id", "")
	viper.SetDefault("s3.secret_access_key", "")
	viper.SetDefault("s3.prefix", "grafana")
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("images.use_proxy", false)
	viper.SetDefault("images.host", "")

	// Telegram
	viper.SetDefault("telegram.base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.allowed_chat_ids", []string{})

	// Slack (used by `run --slack-channel`)
	viper.SetDefault("slack.base_url", "https://slack.com/api")
	viper.SetDefault("slack.bot_token", "")
}
