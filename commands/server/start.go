package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/timelock/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// StartOptions are the flags of the start command.
type StartOptions struct {
	Bind  string
	Debug bool
	// Metrics is the address the prometheus metrics are served on.
	// Empty disables the metrics endpoint.
	Metrics string
}

func parseFlags(args []string) (StartOptions, error) {
	var opts StartOptions
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.StringVar(&opts.Bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&opts.Metrics, flagMetrics, "", "address to serve prometheus metrics on, for example localhost:26660")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it until a termination
// signal is received.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, opts.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "start server: %s", err)
	}

	if opts.Metrics != "" {
		go serveMetrics(logger, opts.Metrics)
	}

	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping ABCI server", "err", err)
		}
	})

	// Wait forever, TrapSignal exits the process.
	select {}
}

func serveMetrics(logger log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
