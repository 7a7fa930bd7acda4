package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestActivitiesLogged_CountsPerAction(t *testing.T) {
	before := testutil.ToFloat64(ActivitiesLogged.WithLabelValues("QUERY_ADDED"))
	ActivitiesLogged.WithLabelValues("QUERY_ADDED").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ActivitiesLogged.WithLabelValues("QUERY_ADDED")))
}

func TestWebSocketConnections_Gauge(t *testing.T) {
	before := testutil.ToFloat64(WebSocketConnections)
	WebSocketConnections.Inc()
	WebSocketConnections.Dec()
	assert.Equal(t, before, testutil.ToFloat64(WebSocketConnections))
}
