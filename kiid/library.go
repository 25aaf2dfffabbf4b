package kiid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

/*
	The document library answers a permalink with the revision history of
	that document:

	{
	    "documentId": "IE00B8KMSQ34-KIID",
	    "revisions": [
	        {
	            "url": "https://docs.example.com/IE00B8KMSQ34/KIID-2020.pdf",
	            "published": "2020-02-12"
	        },
	        {
	            "url": "https://docs.example.com/IE00B8KMSQ34/KIID-2021.pdf",
	            "published": "2021-02-10"
	        }
	    ]
	}

	Revisions are ordered oldest first; the current document is the last one.
*/

// Library queries the document library's JSON API.
type Library struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (l *Library) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

// Resolve follows a permalink to the URL of the latest published revision.
func (l *Library) Resolve(ctx context.Context, permalink string) (string, error) {
	var jobj any
	if err := jwget(ctx, l.client(), permalink, &jobj); err != nil {
		return "", fmt.Errorf("error in wget %q: %w", permalink, err)
	}
	path := "$.revisions[-1:].url"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %q %w", permalink, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	url, ok := jval.(string)
	if !ok || url == "" {
		return "", fmt.Errorf("error parsing %q: %q has no revision url", permalink, path)
	}
	return url, nil
}

func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
