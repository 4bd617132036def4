package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/cloudguard-ml/pkg/cache"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "twin:web-server-1", cache.TwinKey("web-server-1"))
	assert.Equal(t, "prediction:web-server-1:performance", cache.PredictionKey("web-server-1", models.TaskPerformance))
	assert.Equal(t, "prediction:db-2:anomaly", cache.PredictionKey("db-2", models.TaskAnomaly))
	assert.Equal(t, "prediction:db-2:cost", cache.PredictionKey("db-2", models.TaskCost))
}
