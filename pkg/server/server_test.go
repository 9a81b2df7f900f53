package server

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/hanserve/pkg/config"
	"github.com/bastiangx/hanserve/pkg/dictionary"
	"github.com/bastiangx/hanserve/pkg/suggest"
)

type fakeSource struct {
	entries []dictionary.Entry
	err     error
}

func (f *fakeSource) FetchLevel(ctx context.Context, level int) ([]dictionary.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if level == 1 {
		return f.entries, nil
	}
	return nil, nil
}

func testSource() *fakeSource {
	return &fakeSource{entries: []dictionary.Entry{
		{Word: "你好", Pinyin: "nǐ hǎo", Meanings: []string{"hello"}, Level: 1, Index: 1},
		{Word: "你", Pinyin: "nǐ", Meanings: []string{"you"}, Level: 1, Index: 2},
		{Word: "你们", Pinyin: "nǐ men", Meanings: []string{"you (plural)"}, Level: 1, Index: 3},
		{Word: "绿", Pinyin: "lǜ", Meanings: []string{"green"}, Level: 3, Index: 4},
	}}
}

// runServer feeds the requests through an in-memory server, consumes the
// ready banner and returns a decoder positioned at the first response.
func runServer(t *testing.T, cfg *config.Config, configPath string, src dictionary.Source, requests []Request) *msgpack.Decoder {
	t.Helper()

	loader := dictionary.NewLoader(src, 1, time.Second)
	svc := suggest.NewService(loader, 0, 0)

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("Encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(svc, cfg, configPath, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("Decoding ready banner: %v", err)
	}
	if ready.Status != "ready" {
		t.Fatalf("Expected ready banner, got %+v", ready)
	}
	return dec
}

func TestServerSuggestOp(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "suggest", Query: "nihao"},
	})

	var resp ResultsResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if resp.ID != "r1" || resp.Count != 1 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	got := resp.Results[0]
	if got.Word != "你好" || got.Match != "exact" || got.Rank != 1 {
		t.Errorf("Unexpected candidate: %+v", got)
	}
	if got.Gloss != "hello" || got.Pinyin != "nǐ hǎo" {
		t.Errorf("Candidate fields wrong: %+v", got)
	}
}

func TestServerSearchOp(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "search", Query: "green"},
	})

	var resp ResultsResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if resp.Count != 1 || resp.Results[0].Word != "绿" {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	if resp.Results[0].Score == 0 {
		t.Errorf("Search candidates should carry a score: %+v", resp.Results[0])
	}
}

func TestServerValidation(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}

	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "suggest"},
		{ID: "r2", Op: "suggest", Query: "   "},
		{ID: "r3", Op: "fly"},
		{ID: "r4", Op: "suggest", Query: string(long)},
	})

	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		var errResp ErrorResponse
		if err := dec.Decode(&errResp); err != nil {
			t.Fatalf("Decoding error for %s: %v", id, err)
		}
		if errResp.ID != id || errResp.Code != 400 {
			t.Errorf("Expected 400 for %s, got %+v", id, errResp)
		}
	}
}

// a broken source answers 503, not a crash and not silence
func TestServerDictionaryUnavailable(t *testing.T) {
	src := &fakeSource{err: errors.New("network down")}
	dec := runServer(t, config.DefaultConfig(), "", src, []Request{
		{ID: "r1", Op: "suggest", Query: "ni"},
	})

	var errResp ErrorResponse
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if errResp.Code != 503 {
		t.Errorf("Expected 503, got %+v", errResp)
	}
}

func TestServerCaretOps(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "extract", Text: "ni hao", Cursor: 6},
		{ID: "r2", Op: "commit", Text: "wohaoxx", Cursor: 5, Start: 2, Hanzi: "你好"},
		{ID: "r3", Op: "extract", Text: "ni hao", Cursor: 3},
	})

	var token TokenResponse
	if err := dec.Decode(&token); err != nil {
		t.Fatalf("Decoding extract response: %v", err)
	}
	if !token.Found || token.Text != "hao" || token.Start != 3 {
		t.Errorf("Unexpected token: %+v", token)
	}

	var splice SpliceResponse
	if err := dec.Decode(&splice); err != nil {
		t.Fatalf("Decoding commit response: %v", err)
	}
	if splice.Text != "wo你好xx" || splice.Cursor != 4 {
		t.Errorf("Unexpected splice: %+v", splice)
	}

	if err := dec.Decode(&token); err != nil {
		t.Fatalf("Decoding extract response: %v", err)
	}
	if token.Found {
		t.Errorf("Cursor right after a space should find nothing, got %+v", token)
	}
}

// garbage queries are filtered to an empty answer instead of an error
func TestServerFilter(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "suggest", Query: "1111"},
		{ID: "r2", Op: "suggest", Query: "aaaa"},
	})

	for _, id := range []string{"r1", "r2"} {
		var resp ResultsResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("Decoding response for %s: %v", id, err)
		}
		if resp.ID != id || resp.Count != 0 {
			t.Errorf("Expected an empty answer for %s, got %+v", id, resp)
		}
	}
}

func TestServerHealthAndStats(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), "", testSource(), []Request{
		{ID: "r1", Op: "health"},
		{ID: "r2", Op: "suggest", Query: "ni"},
		{ID: "r3", Op: "health"},
		{ID: "r4", Op: "stats"},
	})

	var health StatusResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatalf("Decoding health: %v", err)
	}
	if health.Status != "ok" || health.State != "unloaded" {
		t.Errorf("Fresh server should report unloaded: %+v", health)
	}

	var resp ResultsResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("Decoding suggest response: %v", err)
	}

	if err := dec.Decode(&health); err != nil {
		t.Fatalf("Decoding health: %v", err)
	}
	if health.State != "loaded" || health.Entries != 4 {
		t.Errorf("Expected a loaded dictionary with 4 entries: %+v", health)
	}

	var stats StatsResponse
	if err := dec.Decode(&stats); err != nil {
		t.Fatalf("Decoding stats: %v", err)
	}
	if stats.Stats["dictEntries"] != 4 || stats.Stats["loaded"] != 1 {
		t.Errorf("Unexpected stats: %+v", stats.Stats)
	}
}

// a config update applies to the running server and persists to disk
func TestServerConfigOp(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	limit := 2

	dec := runServer(t, config.DefaultConfig(), configPath, testSource(), []Request{
		{ID: "r1", Op: "config", SuggestLimit: &limit},
		{ID: "r2", Op: "suggest", Query: "ni"},
	})

	var cfgResp ConfigResponse
	if err := dec.Decode(&cfgResp); err != nil {
		t.Fatalf("Decoding config response: %v", err)
	}
	if cfgResp.Status != "updated" {
		t.Fatalf("Unexpected config response: %+v", cfgResp)
	}

	var resp ResultsResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("Decoding suggest response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Updated limit should cap results at 2, got %d", resp.Count)
	}

	saved, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Loading saved config: %v", err)
	}
	if saved.Server.SuggestLimit != 2 {
		t.Errorf("Update should persist, got %d", saved.Server.SuggestLimit)
	}
}
