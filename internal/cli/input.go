// Package cli handles cmd line input and suggestions for DBG and trying
// the lookup engine without an editor attached
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/hanserve/internal/utils"
	"github.com/bastiangx/hanserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads pinyin from stdin and prints ranked Hanzi
// candidates. It accepts flags to control behavior such as minimum and
// maximum query length, candidate limits, and filtering options.
// Lines starting with '/' are commands: /search runs a free-text
// dictionary search, /stats dumps the engine counters, /quit exits.
type InputHandler struct {
	suggester    suggest.ISuggester
	minQueryLen  int
	maxQueryLen  int
	suggestLimit int
	noFilter     bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(suggester suggest.ISuggester, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		suggester:    suggester,
		minQueryLen:  minLength,
		maxQueryLen:  maxLength,
		suggestLimit: limit,
		noFilter:     noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleQuery() or handleCommand().
// Loop terminates on /quit or if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("HanServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type pinyin and press Enter to see Hanzi candidates (/quit to exit):")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if h.handleCommand(line) {
				return nil
			}
			continue
		}
		h.handleQuery(line)
	}
}

// handleCommand runs a slash command. Returns true when the loop should exit
func (h *InputHandler) handleCommand(line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/search":
		h.handleSearch(strings.TrimSpace(rest))
	case "/stats":
		stats := h.suggester.Stats()
		keys := make([]string, 0, len(stats))
		for key := range stats {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			log.Printf("%-14s %d", key, stats[key])
		}
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
	return false
}

// handleQuery processes a single pinyin query.
// It validates the query's length and content, then asks the suggester for
// Hanzi candidates. Results are formatted and printed to the log.
// Lookup failures surface as an empty candidate list here: the typing
// loop keeps going even while the dictionary is unreachable.
func (h *InputHandler) handleQuery(query string) {
	if len(query) < h.minQueryLen {
		log.Errorf("Query too short: %s", query)
		return
	}

	if len(query) > h.maxQueryLen {
		log.Errorf("Query too long: %s", query)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidQuery(query) {
			log.Warnf("No candidates for '%s' (filtered out)", query)
			return
		}
	} else {
		log.Debug("Input filtering disabled - allowing all queries")
	}

	start := time.Now()
	log.Debug("Processing request for", "query", query)

	results := h.suggester.FetchSuggestions(context.Background(), query)

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No candidates found for query: '%s'", query)
		return
	}
	if len(results) > h.suggestLimit {
		results = results[:h.suggestLimit]
	}

	log.Printf("Found %d candidates for query '%s':", len(results), query)
	for i, r := range results {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Word)
		log.Printf("%2d. %-16s %-20s %-10s %s", i+1, clWord, r.Pinyin, r.Match, strings.Join(r.Meanings, ", "))
	}
}

// handleSearch runs a free-text dictionary search. Unlike the typing
// loop this command reports lookup errors instead of hiding them
func (h *InputHandler) handleSearch(query string) {
	if query == "" {
		log.Errorf("Usage: /search <text>")
		return
	}

	start := time.Now()
	results, err := h.suggester.Search(context.Background(), query)
	if err != nil {
		log.Errorf("Search failed: %v", err)
		return
	}
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for search '%s'", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No entries found for: '%s'", query)
		return
	}

	log.Printf("Found %d entries for '%s':", len(results), query)
	for i, r := range results {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Word)
		log.Printf("%2d. %-16s %-20s (score: %4d) %s", i+1, clWord, r.Pinyin, r.Score, strings.Join(r.Meanings, ", "))
	}
}
