package fungible

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	authority := weavetest.NewCondition().Address()
	alice := weavetest.NewCondition().Address()

	cases := map[string]struct {
		genesis     Genesis
		wantErr     *errors.Error
		wantBalance uint64
	}{
		"mint with funded account": {
			genesis: Genesis{
				Mints:    []GenesisMint{{Ticker: "ABC", Authority: authority, Decimals: 6}},
				Accounts: []GenesisAccount{{Owner: alice, Ticker: "ABC", Amount: 700}},
			},
			wantBalance: 700,
		},
		"empty account": {
			genesis: Genesis{
				Mints:    []GenesisMint{{Ticker: "ABC", Authority: authority}},
				Accounts: []GenesisAccount{{Owner: alice, Ticker: "ABC"}},
			},
		},
		"account of unknown mint": {
			genesis: Genesis{
				Accounts: []GenesisAccount{{Owner: alice, Ticker: "ABC", Amount: 1}},
			},
			wantErr: errors.ErrNotFound,
		},
		"duplicated mint": {
			genesis: Genesis{
				Mints: []GenesisMint{
					{Ticker: "ABC", Authority: authority},
					{Ticker: "ABC", Authority: alice},
				},
			},
			wantErr: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := json.Marshal(tc.genesis)
			require.NoError(t, err)
			opts := timelock.Options{"fungible": raw}

			db := store.MemStore()
			var ini Initializer
			if err := ini.FromGenesis(opts, timelock.GenesisParams{}, db); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			got, err := NewLedger().BalanceOf(db, HoldingAddress(alice, MintAddress("ABC")))
			require.NoError(t, err)
			assert.Equal(t, tc.wantBalance, got)
		})
	}
}
