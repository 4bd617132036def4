package timeseries

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/OldStager01/cloudguard-ml/pkg/config"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

const measurement = "digital_twin_metrics"

// Client wraps the InfluxDB collaborator: one write per metric sample per
// twin update, and a trailing-window query used by retraining.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	bucket   string
	timeout  time.Duration
}

func New(cfg config.InfluxDBConfig) *Client {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		queryAPI: client.QueryAPI(cfg.Org),
		bucket:   cfg.Bucket,
		timeout:  timeout,
	}
}

// WriteTwinMetrics persists every sample in the batch tagged with the twin's
// resource ID, carrying the sample timestamp at nanosecond precision.
func (c *Client) WriteTwinMetrics(ctx context.Context, twin *models.DigitalTwinState, samples models.MetricsWindow) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for _, sample := range samples {
		point := influxdb2.NewPoint(
			measurement,
			map[string]string{"resource_id": twin.ResourceID},
			map[string]interface{}{
				"cpu":      sample.CPU,
				"memory":   sample.Memory,
				"disk":     sample.Disk,
				"network":  sample.Network,
				"accuracy": twin.Accuracy,
			},
			sample.Timestamp,
		)

		if err := c.writeAPI.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("failed to write twin metrics: %w", err)
		}
	}

	return nil
}

// CountSamples counts persisted metric rows over the trailing window. Used by
// retraining to size its training set.
func (c *Client) CountSamples(ctx context.Context, window time.Duration) (int64, error) {
	query := fmt.Sprintf(`
		from(bucket: %q)
		  |> range(start: -%s)
		  |> filter(fn: (r) => r["_measurement"] == %q)
		  |> filter(fn: (r) => r["_field"] == "cpu")
		  |> count()`,
		c.bucket, window.String(), measurement,
	)

	result, err := c.queryAPI.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("history query failed: %w", err)
	}
	defer result.Close()

	var total int64
	for result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			total += v
		}
	}
	if result.Err() != nil {
		return 0, fmt.Errorf("history query failed: %w", result.Err())
	}

	return total, nil
}

// Ping checks connectivity to the InfluxDB server.
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influxdb is not reachable")
	}
	return nil
}

func (c *Client) Close() {
	c.client.Close()
}
