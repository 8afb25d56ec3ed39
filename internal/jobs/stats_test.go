package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	domains, tokens int64
	err             error
}

func (c *counter) CountLiveDomains(context.Context, time.Time) (int64, error) {
	return c.domains, c.err
}

func (c *counter) CountLiveTokens(context.Context, time.Time) (int64, error) {
	return c.tokens, nil
}

func TestRefreshStats(t *testing.T) {
	c := &counter{domains: 7, tokens: 3}
	NewScheduler(c).RefreshStats()

	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.LiveDomains))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.LiveTokens))

	// a failing store leaves the last values in place
	c.err = errors.New("down")
	c.domains = 100
	NewScheduler(c).RefreshStats()
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.LiveDomains))
}

func TestStart_BadSpec(t *testing.T) {
	s := NewScheduler(&counter{})
	assert.Error(t, s.Start("every now and then"))
}

func TestStart_Stop(t *testing.T) {
	s := NewScheduler(&counter{})
	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
}
