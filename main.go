// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/gochip8/host"
	"github.com/beevik/term"
	"github.com/retroenv/retrogolib/log"
)

var (
	rate   int
	keys   string
	debug  bool
	quiet  bool
	script string
)

func init() {
	flag.IntVar(&rate, "rate", cpu.DefaultClockRate, "instructions per second")
	flag.StringVar(&keys, "keys", "edge", "key latch mode (edge or level)")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.BoolVar(&quiet, "quiet", false, "log errors only")
	flag.StringVar(&script, "x", "", "execute commands from a script file")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: gochip8 [options] [rom]\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	logger := createLogger(debug, quiet)

	mode, err := cpu.ParseKeyMode(keys)
	if err != nil {
		logger.Fatal(err.Error())
	}

	h := host.New(host.Config{
		ClockRate: rate,
		KeyMode:   mode,
		Logger:    logger,
		Output:    os.Stdout,
	})

	// Preload a ROM named on the command line.
	if args := flag.Args(); len(args) > 0 {
		if err := h.Load(args[0]); err != nil {
			logger.Fatal("Loading ROM failed", log.Err(err))
		}
	}

	// Run commands contained in a script file.
	if script != "" {
		file, err := os.Open(script)
		if err != nil {
			logger.Fatal("Opening script failed", log.Err(err))
		}
		err = h.RunCommands(file, os.Stdout, false)
		file.Close()
		if errors.Is(err, host.ErrQuit) {
			return
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if err := h.RunCommands(os.Stdin, os.Stdout, interactive); err != nil && !errors.Is(err, host.ErrQuit) {
		logger.Error("Reading commands failed", log.Err(err))
		os.Exit(1)
	}
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
