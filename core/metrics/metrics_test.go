package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"reminders/core/reconcile"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	m := New()
	r := m.Recorder("lists")

	r.Batch(reconcile.ModeEvents)
	r.Operation(reconcile.Move)
	r.Operation(reconcile.Move)
	r.Operation(reconcile.Insert)
	r.Fault(reconcile.ModeEvents)
	r.Reload(reconcile.ModeEvents)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues("lists", "events")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("lists", "move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("lists", "insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.faults.WithLabelValues("lists", "events")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("lists", "events")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Recorder("reminders").Reload(reconcile.ModeSnapshot)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `reminders_reconcile_reloads_total{mode="snapshot",view="reminders"} 1`)
}
