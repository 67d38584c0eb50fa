// Package compile turns personalized LaTeX into PDF bytes. External
// compiler services are tried in configured order; the synthetic writer is
// the terminal fallback that cannot fail on network conditions.
package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mathplanner/mathplanner/internal/config"
)

// pdfMagic is the signature every accepted payload must begin with.
var pdfMagic = []byte("%PDF")

// IsPDF reports whether b plausibly holds a PDF document.
func IsPDF(b []byte) bool {
	return len(b) > 0 && bytes.HasPrefix(b, pdfMagic)
}

// Strategy is one candidate method for turning LaTeX into PDF bytes.
// Adding, removing or reordering compiler providers is a configuration
// change, not a code change.
type Strategy struct {
	Name   string
	Invoke func(ctx context.Context, latexSrc string) ([]byte, error)
}

// maximum response size accepted from an external compiler
const maxPDFResponse = 32 << 20

// NewStrategy builds a Strategy for a configured endpoint. Unknown kinds
// yield a strategy that always fails, so a config typo degrades to the next
// provider instead of crashing.
func NewStrategy(ep config.CompilerEndpoint) Strategy {
	switch ep.Kind {
	case "json":
		return jsonStrategy(ep)
	case "form":
		return formStrategy(ep)
	default:
		return Strategy{Name: ep.Name, Invoke: func(context.Context, string) ([]byte, error) {
			return nil, fmt.Errorf("unknown compiler kind %q", ep.Kind)
		}}
	}
}

// jsonStrategy posts a build request document:
// {"cmd":"pdflatex","resources":[{"main":true,"file":"main.tex","content":...}]}
func jsonStrategy(ep config.CompilerEndpoint) Strategy {
	return Strategy{
		Name: ep.Name,
		Invoke: func(ctx context.Context, latexSrc string) ([]byte, error) {
			payload, err := json.Marshal(map[string]any{
				"cmd": "pdflatex",
				"resources": []map[string]any{
					{"main": true, "file": "main.tex", "content": latexSrc},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("marshal build request: %w", err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
			if err != nil {
				return nil, fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/pdf")
			return doCompileRequest(ep, req)
		},
	}
}

// formStrategy posts url-encoded filename/filecontents fields (texlive.net
// style CGI contract).
func formStrategy(ep config.CompilerEndpoint) Strategy {
	return Strategy{
		Name: ep.Name,
		Invoke: func(ctx context.Context, latexSrc string) ([]byte, error) {
			form := url.Values{
				"filename":     {"document.tex"},
				"filecontents": {latexSrc},
				"engine":       {"pdflatex"},
				"return":       {"pdf"},
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, strings.NewReader(form.Encode()))
			if err != nil {
				return nil, fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return doCompileRequest(ep, req)
		},
	}
}

// doCompileRequest performs the call with the endpoint's own timeout and
// applies the shared acceptance checks: 2xx status, a PDF content type and
// the %PDF byte signature. Services that send application/octet-stream or
// no Content-Type at all are tolerated; the byte signature still decides.
func doCompileRequest(ep config.CompilerEndpoint, req *http.Request) ([]byte, error) {
	client := &http.Client{Timeout: ep.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", ep.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s returned status %d: %s", ep.Name, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" &&
		!strings.Contains(ct, "pdf") && !strings.Contains(ct, "octet-stream") {
		return nil, fmt.Errorf("%s returned non-PDF content type %q", ep.Name, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFResponse))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", ep.Name, err)
	}
	if !IsPDF(body) {
		return nil, fmt.Errorf("%s response is not a PDF (%d bytes)", ep.Name, len(body))
	}
	return body, nil
}
