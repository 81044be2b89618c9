package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(OracleCalls.WithLabelValues("ok"))
	OracleCalls.WithLabelValues("ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(OracleCalls.WithLabelValues("ok")))

	before = testutil.ToFloat64(Verdicts.WithLabelValues("MIXED"))
	Verdicts.WithLabelValues("MIXED").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Verdicts.WithLabelValues("MIXED")))
}
