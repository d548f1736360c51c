// Package main is the entry point for the appstage runtime.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/appstage/internal/app"
	"github.com/dshills/appstage/internal/runmode"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, showVersion := parseFlags()

	if showVersion {
		fmt.Printf("appstage %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	printSummary(application)

	if !opts.Watch {
		return 0
	}

	// Watch mode: keep reloading until interrupted.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	return 0
}

func parseFlags() (app.Options, bool) {
	opts := app.Options{Mode: runmode.Detect()}
	var showVersion bool

	flag.StringVar(&opts.Root, "root", "", "Project root directory")
	flag.StringVar(&opts.BasePath, "config", "", "Path to the base configuration file")
	flag.StringVar(&opts.BasePath, "c", "", "Path to the base configuration file (shorthand)")
	flag.StringVar(&opts.OverlayPath, "overlay", "", "Path to the overlay file")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload when configuration sources change")
	flag.BoolVar(&opts.Watch, "w", false, "Reload when configuration sources change (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	return opts, showVersion
}

func printSummary(application *app.Application) {
	view := application.View()

	fmt.Printf("mode: %s\n", application.Mode())
	fmt.Printf("configuration keys: %d\n", len(view.Keys()))
	for _, key := range view.Keys() {
		fmt.Printf("  %s = %v\n", key, view.GetDefault(key, "<unset>"))
	}

	index := application.Resources()
	fmt.Printf("resource categories: %d\n", len(index.Categories()))
	for _, name := range index.Categories() {
		files, err := index.List(name)
		if err != nil {
			continue
		}
		dir, _ := index.Dir(name)
		fmt.Printf("  %s: %d files under %s\n", name, len(files), dir)
	}
}
