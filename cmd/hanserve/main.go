// Copyright 2025 The HanServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the pinyin suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

HanServe turns typed pinyin into ranked Hanzi candidates using Patricia
tries over the HSK dictionary. It can operate as a MessagePack IPC server
for integration with text editors, or as a CLI application for testing
and debugging.

The server mode loads the leveled dictionary lazily on the first request:
concurrent first queries share a single load, and a failed load is retried
on the next request. Candidates are bucketed by how the query matched
(exact, partial, shorthand) and capped to keep answers small.

# Usage

Start the server with default settings:

	hanserve

Use custom data directory and enable debug mode:

	hanserve -data /path/to/hsk -d

Fetch the dictionary from a remote host instead of disk:

	hanserve -url https://example.com/hsk

Run in CLI mode for interactive testing:

	hanserve -c -limit 10 -prmin 2

The data directory should contain leveled JSON files named hsk1.json,
hsk2.json, etc. All configured levels are fetched in parallel and merged
into one lookup table, with later levels winning duplicated words.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, dictionary settings, and CLI defaults:

	[server]
	suggest_limit = 10
	search_limit = 50
	max_query = 64
	enable_filter = true

	[data]
	base_url = ""
	dir = "data/"
	levels = 6
	fetch_timeout_secs = 30
	retry_attempts = 3

The config file is automatically created with defaults if it doesn't exist.
Server limits can be updated at runtime through the IPC "config" op.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Suggestion
requests are processed synchronously with millisecond timing information
included in responses.

Send a suggestion request:

	{"id": "req_001", "op": "suggest", "q": "nihao", "l": 10}

Receive ranked Hanzi candidates:

	{"id": "req_001", "s": [{"w": "你好", "p": "nǐ hǎo", "g": "hello", "mt": "exact", "r": 1}], "c": 1, "t": 2}

Cursor ops let an editor extract the pinyin run being typed and splice
the chosen Hanzi over it:

	{"id": "tok1", "op": "extract", "t": "zhe shi nihao", "cur": 13}
	{"id": "tok2", "op": "commit", "t": "zhe shi nihao", "cur": 13, "st": 8, "h": "你好"}

# Server Mode

The default mode starts a MessagePack IPC server that processes requests
from stdin and writes responses to stdout. This design enables
integration with text editors and other applications through process
communication.

	srv := server.NewServer(svc, config, configPath)
	err := srv.Start()

The server automatically handles request parsing, validation, and response
formatting. A request that arrives while the dictionary cannot be fetched
answers 503 and the next request triggers a fresh load attempt.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
lookup engine. It reads pinyin from stdin and displays Hanzi candidates
with their pinyin, gloss and match bucket. Slash commands run free-text
search (/search) and dump engine counters (/stats).

	inputHandler := cli.NewInputHandler(svc, minLen, maxLen, limit, noFilter)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode. Unlike the server, the typing loop hides
dictionary failures behind an empty candidate list so typing never breaks.

# Lookup Engine

The core lookup functionality is provided by the suggest package, which
implements Patricia trie matching over full pinyin, per-syllable and
initials keys, plus a linear scorer for free-text dictionary search.

	loader := dictionary.NewLoader(source, levels, timeout)
	svc := suggest.NewService(loader, suggestLimit, searchLimit)
	results, err := svc.SuggestHanzi(ctx, "nihao")

# Command Line Flags

The following flags control application behavior:

	-version
	    Show current version
	-config string
	    Path to the TOML config file
	-data string
	    Directory containing the hsk level files (default "data/")
	-url string
	    Base URL to fetch hsk level files from instead of disk
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of candidates to return (default from config)
	-prmin int
	    Minimum query length for suggestions
	-prmax int
	    Maximum query length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-timeout int
	    Dictionary fetch timeout in seconds
	-retries int
	    Retry attempts per level fetch (remote source only)

The application automatically resolves data and config paths relative to the
executable location, supporting both development and production deployments.

Input filtering removes numeric, repetitive and symbol-laden queries by
default to improve candidate relevance, though this can be disabled for
debugging purposes.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/hanserve/internal/cli"
	"github.com/bastiangx/hanserve/internal/logger"
	"github.com/bastiangx/hanserve/internal/utils"
	"github.com/bastiangx/hanserve/pkg/config"
	"github.com/bastiangx/hanserve/pkg/dictionary"
	"github.com/bastiangx/hanserve/pkg/server"
	"github.com/bastiangx/hanserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.4.0-beta"
	AppName = "hanserve"
	gh      = "https://github.com/bastiangx/hanserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to the TOML config file")
	dataDir := flag.String("data", defaultConfig.Data.Dir, "Directory containing the hsk level files")
	baseURL := flag.String("url", defaultConfig.Data.BaseURL, "Base URL to fetch hsk level files from instead of disk")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of candidates to return")
	minQuery := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum query length for suggestions (1 < n <= prmax)")
	maxQuery := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum query length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - allows all raw queries (numbers, symbols, etc)")
	fetchTimeout := flag.Int("timeout", defaultConfig.Data.FetchTimeoutSecs, "Dictionary fetch timeout in seconds")
	retries := flag.Int("retries", defaultConfig.Data.RetryAttempts, "Retry attempts per level fetch (remote source only)")

	flag.Parse()

	if *showVersion {
		versionLog := logger.Default("")

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		versionLog.SetStyles(styles)

		versionLog.Print("")
		versionLog.Print("[ HanServe ] Serves really fast Hanzi suggestions!")
		versionLog.Print("", "version", Version)
		versionLog.Print("")
		versionLog.Print("use -h or --help to see available options")
		versionLog.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
		log.Print("Either env is not set or system is not supported")
		os.Exit(1)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		for key, value := range pathResolver.GetRuntimeInfo() {
			log.Debugf("runtime %s: %s", key, value)
		}
	} else {
		log.SetLevel(log.WarnLevel)
	}

	configPath := *configFile
	if configPath == "" {
		configPath, err = pathResolver.GetConfigPath("hanserve.toml")
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
			os.Exit(1)
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// explicit flags win over the [data] section
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["url"] {
		appConfig.Data.BaseURL = *baseURL
	}
	if setFlags["data"] {
		appConfig.Data.Dir = *dataDir
	}
	if setFlags["timeout"] {
		appConfig.Data.FetchTimeoutSecs = *fetchTimeout
	}
	if setFlags["retries"] {
		appConfig.Data.RetryAttempts = *retries
	}

	timeout := time.Duration(appConfig.Data.FetchTimeoutSecs) * time.Second

	var source dictionary.Source
	var origin string
	if appConfig.Data.BaseURL != "" {
		origin = appConfig.Data.BaseURL
		source = dictionary.NewHTTPSource(appConfig.Data.BaseURL, timeout, appConfig.Data.RetryAttempts)
		log.Debugf("Using remote dictionary at: %s", origin)
	} else {
		origin, err = pathResolver.GetDataDir(appConfig.Data.Dir)
		if err != nil {
			log.Fatalf("Failed to resolve data dir:(%v)", err)
			os.Exit(1)
		}
		source = dictionary.NewFileSource(origin)
		log.Debugf("Using data dir at: %s", origin)
	}

	log.Debugf("Init loader: levels=[%d], timeout=[%v]", appConfig.Data.Levels, timeout)
	loader := dictionary.NewLoader(source, appConfig.Data.Levels, timeout)
	svc := suggest.NewService(loader, appConfig.Server.SuggestLimit, appConfig.Server.SearchLimit)

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	// NOTE: Server interface has vastly different parameters compared to CLI and what it accepts.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minQuery", *minQuery,
			"maxQuery", *maxQuery,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(svc, *minQuery, *maxQuery, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(svc, appConfig, configPath)

	showStartupInfo(origin)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(origin string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" HanServe ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("dictionary: ( %s )", origin)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
