package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the tendermint genesis file within
// the home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the app_state produced by gen to an existing tendermint
// genesis file. Run "tendermint init" first to create it. An existing
// app_state is kept unless the -f flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	flags := flag.NewFlagSet("init", flag.ExitOnError)
	force := flags.Bool(flagForce, false, "overwrite existing app_state")
	if err := flags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	if _, err := os.Stat(genFile); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s: run tendermint init first", genFile)
		}
		return err
	}

	options, err := gen(flags.Args())
	if err != nil {
		return err
	}

	if err := addGenesisOptions(genFile, options, *force); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid genesis file: %s", err)
	}

	if v, ok := doc[appStateKey]; ok && len(v) > 0 && string(v) != "null" && !force {
		return errors.Wrapf(errors.ErrDuplicate, "%s already set, use -%s to overwrite", appStateKey, flagForce)
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
