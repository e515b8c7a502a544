package utils

import (
	"context"
	"io/ioutil"
	"net/http/httptest"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/release_native"}}

	_, err := m.Check(ctx, db, tx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &weavetest.Handler{DeliverErr: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `timelock_tx_total{code="0",path="escrow/release_native",phase="check"} 1`)
	assert.Contains(t, out, `timelock_tx_total{code="0",path="escrow/release_native",phase="deliver"} 1`)
	assert.Contains(t, out, `timelock_tx_total{code="2",path="escrow/release_native",phase="deliver"} 1`)
	assert.Contains(t, out, `timelock_tx_duration_seconds_count{path="escrow/release_native",phase="deliver"} 2`)

	// Collectors can be registered only once.
	assert.Panics(t, func() { NewMetrics(reg) })
}
