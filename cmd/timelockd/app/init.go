package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/fungible"
	"github.com/iov-one/timelock/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// initialBalance is the native currency given to the genesis account.
const initialBalance uint64 = 123456789

type genesis struct {
	Cash     []cash.GenesisAccount `json:"cash"`
	Fungible fungible.Genesis      `json:"fungible"`
	Conf     genesisConf           `json:"conf"`
}

type genesisConf struct {
	Escrow escrow.Configuration `json:"escrow"`
}

// GenInitOptions will produce the options for one rich account that also
// owns the escrow configuration.
//
//	init <release_delay_seconds> [address]
//
// The release delay must always be given. If no address is provided, a new
// key is generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "release delay in seconds is required")
	}
	delay, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || delay < 0 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid release delay %q", args[0])
	}

	var addr timelock.Address
	if len(args) > 1 {
		addr, err = timelock.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		var keys string
		addr, keys, err = GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
	}

	conf := escrow.Configuration{Owner: addr, ReleaseDelaySeconds: delay}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	gen := genesis{
		Cash:     []cash.GenesisAccount{{Address: addr, Balance: initialBalance}},
		Fungible: fungible.Genesis{Mints: []fungible.GenesisMint{}, Accounts: []fungible.GenesisAccount{}},
		Conf:     genesisConf{Escrow: conf},
	}
	return json.MarshalIndent(gen, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "timelock.db")
	}

	// The daemon runs a single application, so the collectors are
	// registered only once.
	stack := Stack(escrow.BlockClock{}, utils.NewMetrics(prometheus.DefaultRegisterer))
	application, err := Application("timelock", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(app.ChainInitializers(
		cash.Initializer{},
		fungible.Initializer{},
		escrow.Initializer{},
	))

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
func GenerateCoinKey() (timelock.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
