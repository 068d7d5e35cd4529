package metrics

import (
	"testing"
	"time"

	"EconDash/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordSubmit("accepted")
	r.RecordSubmit("accepted")
	r.RecordSubmit("rejected")
	r.RecordStaleSettlement()
	r.RecordActiveSessions(4)
	r.RecordSettlement(models.PhaseSuccess, 120*time.Millisecond)
	r.RecordError("publish")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.submits.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.submits.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.staleSettlements))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.activeSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("publish")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.settlements))
}
