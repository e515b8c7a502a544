package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock/cmd/timelockd/app"
	"github.com/iov-one/timelock/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

// Version is set during the build.
var Version = "dev"

var (
	flagHome = "home"
	varHome  *string

	flagLogLevel = "log_level"
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".timelockd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "minimum log level: debug, info, error or none")
}

func helpMessage() {
	fmt.Println("timelockd")
	fmt.Println("        Time-locked escrow ABCI Application")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Initialize app options in genesis file")
	fmt.Println("        init <release_delay_seconds> [address]")
	fmt.Println("start   Run the abci server")
	fmt.Println("version Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	lvl, err := log.AllowLevel(*varLogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), lvl).
		With("module", "timelock")

	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(app.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(app.GenerateApp, logger, *varHome, rest)
	case "version":
		fmt.Println(Version)
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
