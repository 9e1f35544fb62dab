// Command cdrctl reads and writes CDR channels and bigc parameters from the
// shell.
//
//	cdrctl -lib /opt/cx/lib/libcdr.so get-chan linac1.beam_current
//	cdrctl set-chan linac1.beam_current 12.5
//	cdrctl get-param linac1.adc 3
//	cdrctl set-param linac1.adc 3 200
//	cdrctl -interval 500ms -metrics-addr :9102 watch linac1.beam_current linac1.voltage
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cxv4/cdr-go/pkg/cdr"
	"github.com/cxv4/cdr-go/pkg/cdr/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so that deferred cleanup runs before
// main exits.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cdrctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "JSON config file (library, process_identity, global_symbols)")
		libPath     = fs.String("lib", "", "path to the CDR shared library (default $"+cdr.EnvLibrary+")")
		identity    = fs.String("identity", "", "process identity passed to the library (default argv[0])")
		global      = fs.Bool("global", false, "load the library with RTLD_GLOBAL")
		verbose     = fs.Bool("v", false, "log native failures to stderr")
		metricsAddr = fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
		interval    = fs.Duration("interval", 0, "watch: poll values at this interval in addition to callbacks")
		bigcSize    = fs.Int("bigc-size", 0, "max data size used when registering bigc blocks")
	)
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() == 0 {
		usage(fs)
		return 2
	}
	if fs.Arg(0) == "version" {
		fmt.Fprintf(stdout, "cdrctl %s\n", cdr.WrapperVersion())
		return 0
	}

	logger := log.New(stderr, "", log.LstdFlags)

	var cfg cdr.Config
	if *configPath != "" {
		c, err := cdr.LoadConfig(*configPath)
		if err != nil {
			logger.Printf("config: %v", err)
			return 1
		}
		cfg = c
	}
	if *libPath != "" {
		cfg.Path = *libPath
	}
	if *identity != "" {
		cfg.ProcessIdentity = *identity
	}
	if *global {
		cfg.GlobalSymbols = true
	}
	cfg = cfg.FromEnv()

	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			logger.Printf("logger: %v", err)
			return 1
		}
		defer func() { _ = zl.Sync() }()
		cfg.Logger = logging.NewZap(zl)
	}

	reg := prometheus.NewRegistry()
	cfg.Registerer = reg

	lib, err := cdr.Open(cfg)
	if err != nil {
		if errors.Is(err, cdr.ErrNotBuilt) {
			fmt.Fprintf(stdout, "library unavailable: %v\n", err)
		} else {
			logger.Printf("open: %v", err)
		}
		return 1
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil {
			logger.Printf("close error: %v", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	r := &runner{lib: lib, out: stdout, interval: *interval, bigcSize: *bigcSize}
	if err := r.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			usage(fs)
			return 2
		}
		logger.Printf("%s: %v", fs.Arg(0), err)
		return 1
	}
	return 0
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), `usage: cdrctl [flags] <command> [args]

commands:
  get-chan NAME              print a channel value
  set-chan NAME VALUE        write a channel value
  get-param NAME N           print bigc parameter N
  set-param NAME N VALUE     write bigc parameter N
  watch NAME...              print channel updates until interrupted
  version                    print the binding version

flags:
`)
	fs.PrintDefaults()
}
