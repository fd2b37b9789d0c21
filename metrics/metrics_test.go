package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeItems(t *testing.T) {
	c := ScrapeItems.WithLabelValues("race", Failed)
	before := testutil.ToFloat64(c)
	c.Inc()
	c.Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestCollectorsLint(t *testing.T) {
	FetchRequests.WithLabelValues("ok").Inc()
	for _, c := range []prometheus.Collector{FetchRequests, FetchDuration, ScrapeItems, ValidationViolations, MissingSections} {
		problems, err := testutil.CollectAndLint(c)
		require.NoError(t, err)
		assert.Empty(t, problems)
	}
}
