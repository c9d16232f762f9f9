package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	c := New()

	c.ObserveOperation("create", "ok")
	c.ObserveOperation("create", "ok")
	c.ObserveOperation("delete", "miss")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.ReminderOps.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.ReminderOps.WithLabelValues("delete", "miss")))
}

func TestObserveOperation_NilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() { c.ObserveOperation("create", "ok") })
}
