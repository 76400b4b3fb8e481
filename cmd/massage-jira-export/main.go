// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/jira-export-masseur/lib/masseur"
	"github.com/bureau-foundation/jira-export-masseur/lib/prescription"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath  string
		debug       bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("massage-jira-export", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "prescription.yaml", "path to the prescription YAML file")
	flagSet.BoolVarP(&debug, "debug", "d", false, "write *.proc.xml files into a retained workspace instead of packing a new archive")
	flagSet.BoolVar(&showVersion, "version", false, "print version information")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Printf("massage-jira-export %s\n", version)
		return nil
	}

	positional := flagSet.Args()
	if len(positional) != 1 {
		printHelp(flagSet)
		return fmt.Errorf("exactly one export archive path is required")
	}
	archivePath := positional[0]

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	p, err := prescription.Load(configPath)
	if err != nil {
		return err
	}

	m, err := masseur.New(p.UserNameMap, masseur.Options{Debug: debug, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			logger.Warn("workspace cleanup failed", "error", closeErr)
		}
	}()

	return m.Massage(archivePath)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: massage-jira-export [flags] <export.zip>

Rewrites usernames in a JIRA Project Configurator export archive
according to the prescription file and writes the result to
<export>.fixed_users.zip. The input archive is never modified.

Flags:
%s`, flagSet.FlagUsages())
}
