package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(DocumentsLoaded.WithLabelValues(RoleProfile, OutcomeMissing))
	DocumentsLoaded.WithLabelValues(RoleProfile, OutcomeMissing).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(DocumentsLoaded.WithLabelValues(RoleProfile, OutcomeMissing)))

	before = testutil.ToFloat64(Binds.WithLabelValues("test", OutcomeSuccess))
	Binds.WithLabelValues("test", OutcomeSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Binds.WithLabelValues("test", OutcomeSuccess)))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("load")
	time.Sleep(time.Millisecond)
	d := timer.Stop()

	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), d)
	assert.Equal(t, "load", timer.Name())
}
