package component

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// Loader loads the template of a resolved component.
type Loader interface {
	Load(ctx context.Context, resolved string) (*dom.Node, error)
}

// maxTemplateSize bounds the size of a loaded template.
const maxTemplateSize = 4 << 20

// parseTemplate checks and parses the body of a component file.
func parseTemplate(resolved string, body []byte) (*dom.Node, error) {
	text := string(body)
	if strings.HasPrefix(strings.ToUpper(strings.TrimLeft(text, " \t\r\n")), "<!DOCTYPE") {
		return nil, &FetchError{Resolved: resolved, Reason: "content started with <!DOCTYPE"}
	}
	frag, err := dom.ParseFragment(text)
	if err != nil {
		return nil, &FetchError{Resolved: resolved, Reason: "invalid HTML", Err: err}
	}
	return frag, nil
}

// FSLoader loads templates from a file system. Resolved paths are taken
// relative to the file system root.
type FSLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l FSLoader) Load(ctx context.Context, resolved string) (*dom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(resolved, "/")
	body, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, &FetchError{Resolved: resolved, Reason: "file not readable", Err: err}
	}
	return parseTemplate(resolved, body)
}

// HTTPLoader loads templates over HTTP. Responses must be 200 OK with a
// text/html content type.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader creates an HTTPLoader with a 30 second timeout.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Load implements Loader.
func (l *HTTPLoader) Load(ctx context.Context, resolved string) (*dom.Node, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, &FetchError{Resolved: resolved, Reason: "invalid request", Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Resolved: resolved, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Resolved: resolved, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil, &FetchError{Resolved: resolved, Reason: "content type is not text/html"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize+1))
	if err != nil {
		return nil, &FetchError{Resolved: resolved, Reason: "reading body failed", Err: err}
	}
	if len(body) > maxTemplateSize {
		return nil, &FetchError{Resolved: resolved, Reason: "template too large"}
	}
	return parseTemplate(resolved, body)
}
