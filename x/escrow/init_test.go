package escrow

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
	owner := weavetest.NewCondition().Address()

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		// nil if no configuration must be stored
		wantConf *Configuration
	}{
		"configuration is loaded": {
			genesis: `{"conf": {"escrow": {"owner": "` + owner.String() + `", "release_delay_seconds": 2}}}`,
			wantConf: &Configuration{Owner: owner, ReleaseDelaySeconds: 2},
		},
		"configuration is optional": {
			genesis: `{}`,
		},
		"other packages only": {
			genesis: `{"conf": {"cash": {}}}`,
		},
		"invalid configuration": {
			genesis: `{"conf": {"escrow": {"release_delay_seconds": 2}}}`,
			wantErr: errors.ErrInput,
		},
		"negative delay": {
			genesis: `{"conf": {"escrow": {"owner": "` + owner.String() + `", "release_delay_seconds": -2}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts timelock.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, timelock.GenesisParams{}, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			conf, err := loadConf(db)
			if tc.wantConf == nil {
				assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantConf, conf)
		})
	}
}
