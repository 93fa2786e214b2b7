package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "network_error", Outcome(0, errors.New("dial")))
	assert.Equal(t, "server_error", Outcome(502, nil))
	assert.Equal(t, "rejected", Outcome(422, nil))
	assert.Equal(t, "ok", Outcome(200, nil))
}

func TestCountersRegistered(t *testing.T) {
	before := testutil.ToFloat64(BackendRequests.WithLabelValues("test", "ok"))
	BackendRequests.WithLabelValues("test", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BackendRequests.WithLabelValues("test", "ok")))
}
