package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tmGenesis = `{
  "genesis_time": "2019-06-10T11:12:13Z",
  "chain_id": "test-chain-LgVOZ0",
  "validators": [{"power": "10"}],
  "app_hash": ""
}`

func setupHome(t *testing.T, genesis string) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "timelock-server")
	require.NoError(t, err)
	if genesis != "" {
		require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
		require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(genesis), 0600))
	}
	return home, func() { os.RemoveAll(home) }
}

func readGenesis(t *testing.T, home string) genesisDoc {
	t.Helper()
	raw, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc genesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func genAppState(state string) GenOptions {
	return func(args []string) (json.RawMessage, error) {
		return json.RawMessage(state), nil
	}
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t, tmGenesis)
	defer cleanup()
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(genAppState(`{"cash": []}`), logger, home, nil))

	// keep old values, and add our values
	doc := readGenesis(t, home)
	assert.JSONEq(t, `"test-chain-LgVOZ0"`, string(doc["chain_id"]))
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"cash": []}`, string(doc[appStateKey]))

	// existing app state is not overwritten by default
	err := InitCmd(genAppState(`{"cash": [{}]}`), logger, home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)
	assert.JSONEq(t, `{"cash": []}`, string(readGenesis(t, home)[appStateKey]))

	require.NoError(t, InitCmd(genAppState(`{"cash": [{}]}`), logger, home, []string{"-f"}))
	assert.JSONEq(t, `{"cash": [{}]}`, string(readGenesis(t, home)[appStateKey]))
}

func TestInitRequiresGenesis(t *testing.T) {
	home, cleanup := setupHome(t, "")
	defer cleanup()

	err := InitCmd(genAppState(`{}`), log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, StartOptions{Bind: "tcp://localhost:26658"}, opts)

	opts, err = parseFlags([]string{"-bind", "unix:///tmp/app.sock", "-debug", "-metrics", "localhost:26660"})
	require.NoError(t, err)
	assert.Equal(t, StartOptions{Bind: "unix:///tmp/app.sock", Debug: true, Metrics: "localhost:26660"}, opts)
}
