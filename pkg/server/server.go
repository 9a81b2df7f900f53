package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/hanserve/internal/utils"
	"github.com/bastiangx/hanserve/pkg/caret"
	"github.com/bastiangx/hanserve/pkg/config"
	"github.com/bastiangx/hanserve/pkg/suggest"
)

// Server handles the IPC for pinyin suggestions and dictionary search
type Server struct {
	svc        *suggest.Service
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
}

// NewServer creates a lookup server using stdin/stdout for IPC
func NewServer(svc *suggest.Service, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(svc, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams, mainly for tests
func NewServerWithIO(svc *suggest.Service, cfg *config.Config, configPath string, in io.Reader, out io.Writer) *Server {
	return &Server{
		svc:        svc,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(in),
		encoder:    msgpack.NewEncoder(out),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request by op
func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case "suggest":
		s.handleSuggest(request)
	case "search":
		s.handleSearch(request)
	case "extract":
		s.handleExtract(request)
	case "commit":
		s.handleCommit(request)
	case "config":
		s.handleConfig(request)
	case "health":
		s.handleHealth(request)
	case "stats":
		s.send(StatsResponse{ID: request.ID, Stats: s.svc.Stats()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleSuggest processes a pinyin suggestion request. It validates the
// query against the configured bounds, runs the matcher and responds with
// ranked candidates.
func (s *Server) handleSuggest(request Request) {
	query := request.Query
	if strings.TrimSpace(query) == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}
	if max := s.config.Server.MaxQuery; max > 0 && len(query) > max {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d bytes", max), 400)
		return
	}
	if s.config.Server.EnableFilter && !utils.IsValidQuery(query) {
		s.send(ResultsResponse{ID: request.ID, Results: []Candidate{}, Count: 0})
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.config.Server.SuggestLimit
	}
	if limit < 1 || limit > suggest.MaxSuggestions {
		limit = suggest.MaxSuggestions
	}

	start := time.Now()
	results, err := s.svc.SuggestHanzi(context.Background(), query)
	if err != nil {
		s.sendError(request.ID, "Dictionary unavailable", 503)
		return
	}
	elapsed := time.Since(start)

	if len(results) > limit {
		results = results[:limit]
	}
	s.send(ResultsResponse{
		ID:        request.ID,
		Results:   toCandidates(results),
		Count:     len(results),
		TimeTaken: elapsed.Milliseconds(),
	})
}

// handleSearch processes a free-text dictionary search request
func (s *Server) handleSearch(request Request) {
	query := request.Query
	if strings.TrimSpace(query) == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		return
	}
	if max := s.config.Server.MaxQuery; max > 0 && len(query) > max {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d bytes", max), 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.config.Server.SearchLimit
	}
	if limit < 1 || limit > suggest.MaxSearchResults {
		limit = suggest.MaxSearchResults
	}

	start := time.Now()
	results, err := s.svc.Search(context.Background(), query)
	if err != nil {
		s.sendError(request.ID, "Dictionary unavailable", 503)
		return
	}
	elapsed := time.Since(start)

	if len(results) > limit {
		results = results[:limit]
	}
	s.send(ResultsResponse{
		ID:        request.ID,
		Results:   toCandidates(results),
		Count:     len(results),
		TimeTaken: elapsed.Milliseconds(),
	})
}

// handleExtract returns the pinyin run touching the cursor. A cursor with
// no run before it is a regular no-match answer, not an error.
func (s *Server) handleExtract(request Request) {
	token, ok := caret.PinyinAt(request.Text, request.Cursor)
	if !ok {
		s.send(TokenResponse{ID: request.ID, Found: false})
		return
	}
	s.send(TokenResponse{ID: request.ID, Found: true, Text: token.Text, Start: token.Start})
}

// handleCommit splices the chosen Hanzi over the typed pinyin run
func (s *Server) handleCommit(request Request) {
	text, cursor := caret.Insert(request.Text, request.Cursor, request.Start, request.Hanzi)
	s.send(SpliceResponse{ID: request.ID, Text: text, Cursor: cursor})
}

// handleConfig updates server limits at runtime and persists them
func (s *Server) handleConfig(request Request) {
	err := s.config.Update(s.configPath, request.SuggestLimit, request.SearchLimit, request.MaxQuery, request.EnableFilter)
	if err != nil {
		log.Errorf("Updating config: %v", err)
		s.send(ConfigResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.send(ConfigResponse{ID: request.ID, Status: "updated"})
}

// handleHealth reports the dictionary lifecycle without loading anything
func (s *Server) handleHealth(request Request) {
	ls := s.svc.LoaderStats()
	s.send(StatusResponse{
		ID:      request.ID,
		Status:  "ok",
		State:   ls.State,
		Entries: ls.Entries,
	})
}

// toCandidates flattens engine results into wire candidates
func toCandidates(results []suggest.Result) []Candidate {
	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = Candidate{
			Word:   r.Word,
			Pinyin: r.Pinyin,
			Gloss:  strings.Join(r.Meanings, ", "),
			Match:  string(r.Match),
			Score:  r.Score,
			Rank:   i + 1,
		}
	}
	return candidates
}

// send encodes one response onto the output stream
func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
