package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

// Source yields the entries of one HSK level.
type Source interface {
	FetchLevel(ctx context.Context, level int) ([]Entry, error)
}

// levelFile returns the conventional file name of a level.
func levelFile(level int) string {
	return fmt.Sprintf("hsk%d.json", level)
}

// HTTPSource fetches level files from a base URL.
type HTTPSource struct {
	client   *resty.Client
	baseURL  string
	attempts uint
}

// NewHTTPSource creates an HTTP source. attempts is the total number of
// tries per level; anything below 1 means a single try. timeout bounds
// each individual request, not the whole load.
func NewHTTPSource(baseURL string, timeout time.Duration, attempts int) *HTTPSource {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if attempts < 1 {
		attempts = 1
	}
	return &HTTPSource{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		attempts: uint(attempts),
	}
}

// FetchLevel GETs {base}/hsk{level}.json and parses the payload. Transport
// errors and 5xx statuses are retried with backoff; 4xx statuses fail
// immediately since retrying them cannot help.
func (s *HTTPSource) FetchLevel(ctx context.Context, level int) ([]Entry, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, levelFile(level))

	var body []byte
	err := retry.Do(
		func() error {
			res, err := s.client.R().SetContext(ctx).Get(url)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", url, err)
			}
			if res.StatusCode() != http.StatusOK {
				statusErr := fmt.Errorf("fetching %s: unexpected status %s", url, res.Status())
				if res.StatusCode() >= 400 && res.StatusCode() < 500 {
					return retry.Unrecoverable(statusErr)
				}
				return statusErr
			}
			body = res.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return decodeLevel(body, level)
}

// FileSource reads level files from a local directory.
type FileSource struct {
	dir string
}

// NewFileSource creates a file source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// FetchLevel reads and parses hsk{level}.json from the source directory.
func (s *FileSource) FetchLevel(ctx context.Context, level int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, levelFile(level))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %d: %w", level, err)
	}
	return decodeLevel(data, level)
}
