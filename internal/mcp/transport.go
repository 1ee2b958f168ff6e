package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yodaai/yoda/internal/config"
)

// Spec string schemes accepted by ParseSpec.
const (
	stdioSchemePrefix = "stdio://"
	sseSchemePrefix   = "sse://"
)

// BuildTransport creates the SDK transport for a configured server.
func BuildTransport(ctx context.Context, server config.MCPServerConfig) (mcpsdk.Transport, error) {
	switch server.Transport {
	case config.MCPTransportStdio:
		return buildStdioTransport(ctx, server)
	case config.MCPTransportSSE:
		endpoint, err := normalizeHTTPURL(server.URL, false)
		if err != nil {
			return nil, fmt.Errorf("server %q: invalid SSE endpoint: %w", server.Name, err)
		}
		return &mcpsdk.SSEClientTransport{
			Endpoint:   endpoint,
			HTTPClient: httpClientFor(server.Headers),
		}, nil
	case config.MCPTransportHTTP:
		endpoint, err := normalizeHTTPURL(server.URL, false)
		if err != nil {
			return nil, fmt.Errorf("server %q: invalid HTTP endpoint: %w", server.Name, err)
		}
		return &mcpsdk.StreamableClientTransport{
			Endpoint:   endpoint,
			HTTPClient: httpClientFor(server.Headers),
		}, nil
	default:
		return nil, fmt.Errorf("server %q: unsupported transport %q", server.Name, server.Transport)
	}
}

// buildStdioTransport wraps the server command in a CommandTransport.
func buildStdioTransport(ctx context.Context, server config.MCPServerConfig) (mcpsdk.Transport, error) {
	if strings.TrimSpace(server.Command) == "" {
		return nil, fmt.Errorf("server %q: stdio command is empty", server.Name)
	}

	// #nosec G204 -- command comes from the user's own server registration
	cmd := exec.CommandContext(ctx, server.Command, server.Args...)
	if len(server.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range server.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	return &mcpsdk.CommandTransport{Command: cmd}, nil
}

// httpClientFor returns a client that injects the configured headers,
// or nil for the SDK default client.
func httpClientFor(headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: headers,
		},
	}
}

// headerRoundTripper adds static headers to every request. Remote MCP
// servers commonly expect a bearer token this way.
type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}

// ParseSpec parses a one-line server spec into a server registration.
// Accepted forms:
//
//	stdio://npx -y @modelcontextprotocol/server-fetch
//	sse://example.com/mcp/sse
//	http+sse://example.com/mcp
//	http+stream://example.com/mcp
//	https://example.com/mcp        (SSE when the path ends in /sse)
//	npx -y @modelcontextprotocol/server-fetch
func ParseSpec(name, spec string) (config.MCPServerConfig, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return config.MCPServerConfig{}, fmt.Errorf("server spec is empty")
	}

	server := config.MCPServerConfig{Name: name}
	lowered := strings.ToLower(spec)

	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return parseStdioSpec(server, spec[len(stdioSchemePrefix):])
	case strings.HasPrefix(lowered, sseSchemePrefix):
		endpoint, err := normalizeHTTPURL(spec[len(sseSchemePrefix):], true)
		if err != nil {
			return config.MCPServerConfig{}, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		server.Transport = config.MCPTransportSSE
		server.URL = endpoint
		return server, nil
	}

	if transport, endpoint, matched, err := parseHTTPFamilySpec(spec); err != nil {
		return config.MCPServerConfig{}, err
	} else if matched {
		server.Transport = transport
		server.URL = endpoint
		return server, nil
	}

	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		endpoint, err := normalizeHTTPURL(spec, false)
		if err != nil {
			return config.MCPServerConfig{}, fmt.Errorf("invalid endpoint: %w", err)
		}
		server.URL = endpoint
		if strings.HasSuffix(strings.TrimSuffix(endpoint, "/"), "/sse") {
			server.Transport = config.MCPTransportSSE
		} else {
			server.Transport = config.MCPTransportHTTP
		}
		return server, nil
	}

	// No scheme at all: treat the whole spec as a stdio command line.
	return parseStdioSpec(server, spec)
}

// parseStdioSpec splits a command line into command and args.
func parseStdioSpec(server config.MCPServerConfig, cmdSpec string) (config.MCPServerConfig, error) {
	parts := strings.Fields(strings.TrimSpace(cmdSpec))
	if len(parts) == 0 {
		return config.MCPServerConfig{}, fmt.Errorf("stdio command is empty")
	}
	server.Transport = config.MCPTransportStdio
	server.Command = parts[0]
	server.Args = parts[1:]
	return server, nil
}

// parseHTTPFamilySpec handles scheme hints like http+sse:// and
// https+stream://.
func parseHTTPFamilySpec(spec string) (transport, endpoint string, matched bool, err error) {
	u, parseErr := url.Parse(spec)
	if parseErr != nil || u.Scheme == "" {
		return "", "", false, nil
	}

	base, hint, hasHint := strings.Cut(strings.ToLower(u.Scheme), "+")
	if !hasHint || (base != "http" && base != "https") {
		return "", "", false, nil
	}

	switch hint {
	case "sse":
		transport = config.MCPTransportSSE
	case "stream", "streamable", "http":
		transport = config.MCPTransportHTTP
	default:
		return "", "", true, fmt.Errorf("unsupported transport hint %q", hint)
	}

	rebuilt := *u
	rebuilt.Scheme = base
	endpoint, normErr := normalizeHTTPURL(rebuilt.String(), false)
	if normErr != nil {
		return "", "", true, fmt.Errorf("invalid %s endpoint: %w", transport, normErr)
	}
	return transport, endpoint, true, nil
}

// normalizeHTTPURL validates an http(s) endpoint, optionally guessing
// https for bare hosts.
func normalizeHTTPURL(raw string, allowSchemeGuess bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	if allowSchemeGuess && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}

	parsed.Scheme = scheme
	return parsed.String(), nil
}
