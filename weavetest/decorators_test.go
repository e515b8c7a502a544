package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestDecorator(t *testing.T) {
	cases := map[string]struct {
		dec          Decorator
		wantCheck    error
		wantDeliver  error
		wantHandlerN int
	}{
		"pass through": {
			dec:          Decorator{},
			wantHandlerN: 2,
		},
		"check fails": {
			dec:          Decorator{CheckErr: errors.ErrUnauthorized},
			wantCheck:    errors.ErrUnauthorized,
			wantHandlerN: 1,
		},
		"both fail": {
			dec:          Decorator{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrNotFound},
			wantCheck:    errors.ErrUnauthorized,
			wantDeliver:  errors.ErrNotFound,
			wantHandlerN: 0,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var h Handler
			dec := tc.dec
			ctx := context.Background()
			db := store.MemStore()

			_, err := dec.Check(ctx, db, &Tx{}, &h)
			assert.IsErr(t, tc.wantCheck, err)
			_, err = dec.Deliver(ctx, db, &Tx{}, &h)
			assert.IsErr(t, tc.wantDeliver, err)

			// The decorator counts calls even when it fails.
			assert.Equal(t, 1, dec.CheckCallCount())
			assert.Equal(t, 1, dec.DeliverCallCount())
			assert.Equal(t, 2, dec.CallCount())
			assert.Equal(t, tc.wantHandlerN, h.CallCount())
		})
	}
}
