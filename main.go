package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"dbohdan.com/mempig/internal/daemon"
	"dbohdan.com/mempig/internal/logger"
	"dbohdan.com/mempig/internal/memory"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-wordwrap"
	flag "github.com/spf13/pflag"
)

const (
	exitSuccess  = 0
	exitError    = 1
	exitBadUsage = 2
	idleInterval = 100 * time.Second
	usageWidth   = 80
	version      = "0.1.0"
)

const description = "mempig: a program which consumes memory. It maps the requested " +
	"amount of anonymous memory, writes to every page of it, locks it into RAM " +
	"and then holds it until killed. Send SIGUSR1 for a status line."

var (
	errUsage         = errors.New("bad usage")
	errMissingAmount = fmt.Errorf("%w: you must specify how much memory to lock", errUsage)
)

type config struct {
	amount    int64
	daemonize bool
	populate  bool

	help        bool
	showVersion bool
}

func usage(flags *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(
		w,
		"%s\n\nUsage: %s -a amount [options]\n\nOptions:\n",
		wordwrap.WrapString(description, usageWidth),
		filepath.Base(os.Args[0]),
	)

	flags.PrintDefaults()
}

// wantsHelp reports whether -h or --help appears before the "--" terminator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}

	return false
}

// parseArgs parses the command line. Usage is written to output on request and
// on parsing errors; the amount is validated later by [run].
func parseArgs(args []string, output io.Writer) (*config, error) {
	var cfg config

	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	flags.SetOutput(output)
	flags.SortFlags = false
	flags.Usage = func() { usage(flags, output) }

	flags.Int64VarP(
		&cfg.amount,
		"amount",
		"a",
		0,
		"amount of memory to consume in bytes (multiple of 4)",
	)
	flags.BoolVarP(
		&cfg.daemonize,
		"daemonize",
		"d",
		false,
		"daemonize after populating and before locking",
	)
	noPopulate := flags.BoolP(
		"no-populate",
		"n",
		false,
		"skip populate stage",
	)
	flags.BoolVarP(
		&cfg.help,
		"help",
		"h",
		false,
		"this help message",
	)
	flags.BoolVarP(
		&cfg.showVersion,
		"version",
		"v",
		false,
		"report the program version and exit",
	)

	// Help wins over anything else on the command line, even flags that
	// would fail to parse.
	if wantsHelp(args) {
		flags.Usage()

		return &config{help: true}, nil
	}

	if err := flags.Parse(args); err != nil {
		flags.Usage()

		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	if cfg.help {
		flags.Usage()

		return &config{help: true}, nil
	}

	if cfg.showVersion {
		return &cfg, nil
	}

	if flags.NArg() > 0 {
		flags.Usage()

		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, flags.Arg(0))
	}

	if !flags.Changed("amount") {
		flags.Usage()

		return nil, errMissingAmount
	}

	cfg.populate = !*noPopulate

	return &cfg, nil
}

// run reserves, populates and pins memory as configured. In the original
// process of a daemonizing run it returns [daemon.ErrParent].
func run(cfg *config, log *logger.Logger, sys daemon.System) (*memory.Region, error) {
	size, err := memory.ValidateSize(cfg.amount)
	if err != nil {
		return nil, err
	}

	humanSize := humanize.IBytes(uint64(size))

	region, err := memory.Reserve(size)
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("successfully mmap'ed %d bytes", size), "size", humanSize)

	if cfg.populate {
		words := region.Touch()
		log.Info(fmt.Sprintf("successfully touched %d bytes", size), "words", words)
	}

	if cfg.daemonize {
		log.Info("daemonizing...")

		if err := daemon.Detach(sys, log); err != nil {
			return nil, err
		}
	}

	if err := region.Pin(); err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("successfully locked %d bytes", size), "size", humanSize)

	return region, nil
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, daemon.ErrParent):
		return exitSuccess
	case errors.Is(err, errUsage), errors.Is(err, memory.ErrInvalidSize):
		return exitBadUsage
	default:
		return exitError
	}
}

func cli() int {
	log := logger.New(os.Stderr)

	// A background copy has nobody watching its standard error.
	if daemon.IsDetached() {
		log.UseSyslog(true)
	}

	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		log.Error(err.Error())

		return exitCode(err)
	}

	if cfg.help {
		return exitSuccess
	}

	if cfg.showVersion {
		fmt.Println(version)

		return exitSuccess
	}

	region, err := run(cfg, log, daemon.OS{})
	if err != nil {
		if !errors.Is(err, daemon.ErrParent) {
			log.Error(err.Error())
		}

		return exitCode(err)
	}

	handleSignals(func() {
		log.Info(
			"holding memory",
			"size", humanize.IBytes(uint64(region.Len())),
			"populated", region.Populated(),
			"locked", region.Locked(),
		)
	})

	// The process is the reservation; it only ends when killed.
	for {
		time.Sleep(idleInterval)
	}
}

func main() {
	os.Exit(cli())
}
