package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/cloudguard")
	}

	// Environment variable settings
	v.SetEnvPrefix("CLOUDGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "cloudguard-ml")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.twin_ttl", "1h")
	v.SetDefault("redis.prediction_ttl", "5m")

	// InfluxDB defaults
	v.SetDefault("influxdb.url", "http://localhost:8086")
	v.SetDefault("influxdb.token", "admin-token")
	v.SetDefault("influxdb.org", "cloudguard")
	v.SetDefault("influxdb.bucket", "cloudguard")
	v.SetDefault("influxdb.write_timeout", "5s")
	v.SetDefault("influxdb.circuit_breaker.max_failures", 5)
	v.SetDefault("influxdb.circuit_breaker.timeout", "30s")

	// Predictor defaults
	v.SetDefault("predictor.seed", 42)
	v.SetDefault("predictor.anomaly_threshold", 0.1)
	v.SetDefault("predictor.base_confidence", 0.85)
	v.SetDefault("predictor.confidence_jitter", 0.1)
	v.SetDefault("predictor.initial_accuracy", 0.75)
	v.SetDefault("predictor.accuracy_jitter", 0.2)
	v.SetDefault("predictor.accuracy_step", 0.001)
	v.SetDefault("predictor.accuracy_ceiling", 0.99)
	v.SetDefault("predictor.default_resource_type", "compute")

	// Retrain defaults
	v.SetDefault("retrain.window", "720h") // 30 days
	v.SetDefault("retrain.timeout", "5m")

	// API defaults
	v.SetDefault("api.port", 8001)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", "change-me-in-production")
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.service_id", "cloudguard-gateway")

	// WebSocket defaults
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 64)

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
}
