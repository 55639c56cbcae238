package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/media"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: wavetrack [flags] [file]\n\n")
	fmt.Fprintf(os.Stderr, "Without a file, lists the %s files in the current directory.\n\n", media.SupportedExtsList())
	flag.PrintDefaults()
}

// parseFlags turns the command line into a validated config and the
// optional file argument.
func parseFlags(fs *flag.FlagSet, args []string) (config.Config, options, error) {
	cfg := config.Default()
	var opts options
	var linear, noMagnet bool
	snaps := config.FormatPercentages(cfg.SnapPercentages)

	fs.BoolVar(&linear, "linear", false, "draw the straight-line outline instead of the smooth curve")
	fs.IntVar(&cfg.Bars, "bars", cfg.Bars, "number of amplitude bars decoded from the file")
	fs.StringVar(&snaps, "snaps", snaps, "comma separated snap positions (0..1 or percent)")
	fs.BoolVar(&noMagnet, "no-magnet", false, "disable magnet detection while dragging slowly")
	fs.IntVar(&cfg.LookupCapacity, "capacity", cfg.LookupCapacity, "lookup table points sampled from the outline")
	fs.BoolVar(&opts.demo, "demo", false, "show a built-in test signal instead of a file")
	fs.StringVar(&opts.debugFile, "debug", "", "write a debug log to `FILE`")
	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}

	if linear {
		cfg.Mode = curve.Linear
	}
	cfg.MagnetWhileScrolling = !noMagnet
	ps, err := config.ParsePercentages(snaps)
	if err != nil {
		return cfg, opts, err
	}
	cfg.SnapPercentages = ps
	opts.path = fs.Arg(0)
	return cfg, opts, cfg.Validate()
}

type options struct {
	path      string
	demo      bool
	debugFile string
}

func main() {
	flag.Usage = usage
	cfg, opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.debugFile != "" {
		f, err := tea.LogToFile(opts.debugFile, "wavetrack")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var model tea.Model
	if opts.demo {
		m, err := buildDemoModel(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		model = m
	} else {
		if opts.path != "" {
			if err := checkPath(opts.path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		model = newStartupModel(cfg, ".", opts.path)
	}

	log.Printf("starting: bars=%d mode=%v snaps=%v", cfg.Bars, cfg.Mode, cfg.SnapPercentages)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
