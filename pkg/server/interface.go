/*
Package server implements msgpack IPC for pinyin-to-Hanzi lookup services.

The server package provides a minimal interface for suggestion, dictionary
search and caret-buffer operations using msgpack serialization over
stdin/stdout.

The protocol uses binary msgpack encoding. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message carries an ID, an op name and the fields that op needs.

Suggestion requests use mainly this structure:

	{"id": "req_001", "op": "suggest", "q": "nihao", "l": 10}

The server responds with candidates, exact matches first:

	{"id": "req_001", "s": [{"w": "你好", "p": "nǐ hǎo", "g": "hello", "mt": "exact", "r": 1}], "c": 1, "t": 2}

Free-text search works the same way with op "search"; candidates then
carry a score ("sc") instead of a match type.

Caret ops wrap the extractor/splicer pair around text edits:

	{"id": "c_001", "op": "extract", "t": "wo hao", "cur": 6}
	{"id": "c_002", "op": "commit", "t": "wo hao", "cur": 6, "st": 3, "h": "好"}

Extract answers with the pinyin run under the cursor (or ok=false when
there is none); commit answers with the spliced buffer and the new cursor.

Config messages allow adjustment of server limits without restart;
"health" reports the dictionary state and "stats" dumps engine counters.

Invalid requests come back as an error message with a code, 400 for bad
input and 503 while the dictionary cannot be loaded.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency in most cases.
*/
package server

// Request - one incoming message; Op selects the operation
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Query  string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Text   string `msgpack:"t,omitempty"`
	Cursor int    `msgpack:"cur,omitempty"`
	Start  int    `msgpack:"st,omitempty"`
	Hanzi  string `msgpack:"h,omitempty"`

	// config op only
	SuggestLimit *int  `msgpack:"sl,omitempty"`
	SearchLimit  *int  `msgpack:"xl,omitempty"`
	MaxQuery     *int  `msgpack:"mq,omitempty"`
	EnableFilter *bool `msgpack:"ef,omitempty"`
}

// Candidate - minimal dictionary hit
type Candidate struct {
	Word   string `msgpack:"w"`
	Pinyin string `msgpack:"p"`
	Gloss  string `msgpack:"g"`
	Match  string `msgpack:"mt,omitempty"`
	Score  int    `msgpack:"sc,omitempty"`
	Rank   int    `msgpack:"r"`
}

// ResultsResponse - suggestion and search response
type ResultsResponse struct {
	ID        string      `msgpack:"id"`
	Results   []Candidate `msgpack:"s"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// TokenResponse - extract response; Found is false when no pinyin run
// touches the cursor
type TokenResponse struct {
	ID    string `msgpack:"id"`
	Found bool   `msgpack:"ok"`
	Text  string `msgpack:"t,omitempty"`
	Start int    `msgpack:"st"`
}

// SpliceResponse - commit response with the edited buffer
type SpliceResponse struct {
	ID     string `msgpack:"id"`
	Text   string `msgpack:"t"`
	Cursor int    `msgpack:"cur"`
}

// StatusResponse - ready banner and health response
type StatusResponse struct {
	ID      string `msgpack:"id,omitempty"`
	Status  string `msgpack:"status"`
	State   string `msgpack:"state,omitempty"`
	Entries int    `msgpack:"entries,omitempty"`
}

// StatsResponse - engine counters dump
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
