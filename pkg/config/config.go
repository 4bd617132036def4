package config

import (
	"fmt"
	"time"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Redis      RedisConfig      `mapstructure:"redis"`
	InfluxDB   InfluxDBConfig   `mapstructure:"influxdb"`
	Predictor  PredictorConfig  `mapstructure:"predictor"`
	Retrain    RetrainConfig    `mapstructure:"retrain"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events     EventsConfig     `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	TwinTTL       time.Duration `mapstructure:"twin_ttl"`
	PredictionTTL time.Duration `mapstructure:"prediction_ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type InfluxDBConfig struct {
	URL            string               `mapstructure:"url"`
	Token          string               `mapstructure:"token"`
	Org            string               `mapstructure:"org"`
	Bucket         string               `mapstructure:"bucket"`
	WriteTimeout   time.Duration        `mapstructure:"write_timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type PredictorConfig struct {
	Seed                int64   `mapstructure:"seed"`
	AnomalyThreshold    float64 `mapstructure:"anomaly_threshold"`
	BaseConfidence      float64 `mapstructure:"base_confidence"`
	ConfidenceJitter    float64 `mapstructure:"confidence_jitter"`
	InitialAccuracy     float64 `mapstructure:"initial_accuracy"`
	AccuracyJitter      float64 `mapstructure:"accuracy_jitter"`
	AccuracyStep        float64 `mapstructure:"accuracy_step"`
	AccuracyCeiling     float64 `mapstructure:"accuracy_ceiling"`
	DefaultResourceType string  `mapstructure:"default_resource_type"`
}

type RetrainConfig struct {
	Window  time.Duration `mapstructure:"window"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTDuration  time.Duration `mapstructure:"jwt_duration"`
	ServiceID    string        `mapstructure:"service_id"`
	// Bcrypt hash of the shared service secret exchanged for a token.
	ServiceSecretHash string     `mapstructure:"service_secret_hash"`
	CORS              CORSConfig `mapstructure:"cors"`
}

type WebSocketConfig struct {
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
