package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// ErrMiss indicates the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is the Redis collaborator used by the API layer to cache twin
// snapshots and prediction results in front of the core. The core itself
// never reads it.
type Cache struct {
	client        *redis.Client
	twinTTL       time.Duration
	predictionTTL time.Duration
}

func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	twinTTL := cfg.TwinTTL
	if twinTTL <= 0 {
		twinTTL = time.Hour
	}
	predictionTTL := cfg.PredictionTTL
	if predictionTTL <= 0 {
		predictionTTL = 5 * time.Minute
	}

	return &Cache{
		client:        client,
		twinTTL:       twinTTL,
		predictionTTL: predictionTTL,
	}, nil
}

func TwinKey(resourceID string) string {
	return "twin:" + resourceID
}

func PredictionKey(resourceID string, task models.TaskType) string {
	return fmt.Sprintf("prediction:%s:%s", resourceID, task)
}

// Set stores a JSON-encoded value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Get loads the JSON value stored under key into out. Returns ErrMiss when
// the key is absent.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Cache) SetTwin(ctx context.Context, twin *models.DigitalTwinState) error {
	return c.Set(ctx, TwinKey(twin.ResourceID), twin, c.twinTTL)
}

func (c *Cache) GetTwin(ctx context.Context, resourceID string) (*models.DigitalTwinState, error) {
	var twin models.DigitalTwinState
	if err := c.Get(ctx, TwinKey(resourceID), &twin); err != nil {
		return nil, err
	}
	return &twin, nil
}

func (c *Cache) SetPrediction(ctx context.Context, result *models.PredictionResult) error {
	return c.Set(ctx, PredictionKey(result.ResourceID, result.Task), result, c.predictionTTL)
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
