package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMustRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister()
		MustRegister()
	})
}

func TestUnlockAttempts(t *testing.T) {
	before := testutil.ToFloat64(UnlockAttempts.WithLabelValues("limited"))
	UnlockAttempts.WithLabelValues("limited").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(UnlockAttempts.WithLabelValues("limited")))
}
