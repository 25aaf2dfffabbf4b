// Package kiid retrieves KIID and fact-sheet documents from the fund
// promoter's document portal and turns them into plain text for the
// extraction patterns.
package kiid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// A TextEngine turns one retrieved document into plain text. Engines are
// tried in order; an engine that cannot read the document returns an error
// and the next one gets its chance.
type TextEngine interface {
	Name() string
	Text(raw []byte) (string, error)
}

// Plain reads documents whose payload already is text (the portal serves a
// pre-extracted text layer next to each PDF).
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) Text(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty document")
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("document is not text")
	}
	return string(raw), nil
}

// Stripped is the fallback engine: it keeps only the printable runes of a
// payload whose text layer is interleaved with binary noise.
type Stripped struct{}

func (Stripped) Name() string { return "stripped" }

func (Stripped) Text(raw []byte) (string, error) {
	var b strings.Builder
	for _, r := range string(raw) {
		if r == utf8.RuneError || (r < ' ' && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no printable text in document")
	}
	return b.String(), nil
}

// Fetcher retrieves documents over HTTP. It implements the document source
// the permalink pipeline reads from; one Fetcher is safe for concurrent
// use.
type Fetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Library resolves permalinks to the latest published revision. Nil
	// means URLs are fetched as given.
	Library *Library
	// Timeout bounds each document retrieval. Defaults to 30s; a timeout
	// is an error for that document only.
	Timeout time.Duration
	// Engines are tried in order. Defaults to Plain then Stripped.
	Engines []TextEngine
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// Text retrieves one document and decodes its text.
func (f *Fetcher) Text(ctx context.Context, url string) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if f.Library != nil && !strings.HasSuffix(url, ".pdf") {
		resolved, err := f.Library.Resolve(ctx, url)
		if err != nil {
			return "", fmt.Errorf("resolving permalink %q: %w", url, err)
		}
		url = resolved
	}

	raw, err := wget(ctx, f.client(), url)
	if err != nil {
		return "", err
	}

	engines := f.Engines
	if len(engines) == 0 {
		engines = []TextEngine{Plain{}, Stripped{}}
	}
	var lastErr error
	for _, e := range engines {
		text, err := e.Text(raw)
		if err == nil {
			return text, nil
		}
		lastErr = fmt.Errorf("engine %s: %w", e.Name(), err)
	}
	return "", fmt.Errorf("document %q: %w", url, lastErr)
}

// wget little helper to retrieve payload from http.
func wget(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", url, err)
	}
	resp, err := client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}
