package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.SignatureSubmitted(domain.SignerTypeDriver)
	m.SignatureSubmitted(domain.SignerTypeDriver)
	m.DuplicateRejected(domain.SignerTypeCompany)
	m.ThankYouFallback()
	m.RecordRequest("/api/signatures", "POST", 201, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.signatures.WithLabelValues("driver")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicates.WithLabelValues("company")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.thankYouFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/signatures", "POST", "201")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.VisitLogged("logged")
	m.AdminAction("purge")
}
