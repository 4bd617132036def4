package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Redis validation
	if c.Redis.Host == "" {
		errs = append(errs, errors.New("redis.host is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, errors.New("redis.port must be between 1 and 65535"))
	}
	if c.Redis.TwinTTL <= 0 {
		errs = append(errs, errors.New("redis.twin_ttl must be positive"))
	}
	if c.Redis.PredictionTTL <= 0 {
		errs = append(errs, errors.New("redis.prediction_ttl must be positive"))
	}

	// InfluxDB validation
	if c.InfluxDB.URL == "" {
		errs = append(errs, errors.New("influxdb.url is required"))
	}
	if c.InfluxDB.Org == "" {
		errs = append(errs, errors.New("influxdb.org is required"))
	}
	if c.InfluxDB.Bucket == "" {
		errs = append(errs, errors.New("influxdb.bucket is required"))
	}

	// Predictor validation
	if c.Predictor.AnomalyThreshold <= 0 {
		errs = append(errs, errors.New("predictor.anomaly_threshold must be positive"))
	}
	if c.Predictor.InitialAccuracy < 0 || c.Predictor.InitialAccuracy >= 1 {
		errs = append(errs, errors.New("predictor.initial_accuracy must be in [0, 1)"))
	}
	if c.Predictor.AccuracyCeiling <= c.Predictor.InitialAccuracy || c.Predictor.AccuracyCeiling > 1 {
		errs = append(errs, errors.New("predictor.accuracy_ceiling must be in (initial_accuracy, 1]"))
	}
	if c.Predictor.AccuracyStep <= 0 {
		errs = append(errs, errors.New("predictor.accuracy_step must be positive"))
	}

	// Retrain validation
	if c.Retrain.Window <= 0 {
		errs = append(errs, errors.New("retrain.window must be positive"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.App.Mode == "production" && c.API.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
