// Package testserver runs a fully wired MCP server for tests.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/dechenique1/fgr/internal/app"
	"github.com/dechenique1/fgr/internal/config"
	"github.com/dechenique1/fgr/internal/mcp"
)

type TestServer struct {
	App     *app.App
	Server  *sdkmcp.Server
	Session *sdkmcp.ClientSession
}

// Options tweak the wired server.
type Options struct {
	StrictEdits bool
}

// New starts a server over an in-memory sqlite store and connects a client
// through in-memory transports. Requests run as mcp.DefaultTenant.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	a := openApp(t, opts)
	server := mcp.NewServer(mcp.Config{
		Services:      mcp.Services{Projects: a.Projects, Activity: a.Activity},
		TransportMode: config.TransportStdio,
	})

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "fgr-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})

	return &TestServer{App: a, Server: server, Session: session}
}

// HTTPServer serves the MCP server over streamable HTTP with bearer auth.
type HTTPServer struct {
	App    *app.App
	Server *httptest.Server
}

// NewHTTP starts an authenticated HTTP server and registers token for tenantID.
func NewHTTP(t *testing.T, token, tenantID string) *HTTPServer {
	t.Helper()

	a := openApp(t, Options{})
	require.NoError(t, a.Keys.AddAPIKey(context.Background(), tenantID, token, "test"))

	server := mcp.NewServer(mcp.Config{
		Services:      mcp.Services{Projects: a.Projects, Activity: a.Activity},
		Resolver:      a.Keys,
		AuthEnabled:   true,
		TransportMode: config.TransportHTTP,
	})
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return server }, nil)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)

	return &HTTPServer{App: a, Server: httpServer}
}

// Connect opens a client session sending token as bearer credentials.
func (h *HTTPServer) Connect(t *testing.T, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   h.Server.URL,
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "fgr-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	if err == nil {
		t.Cleanup(func() { _ = session.Close() })
	}
	return session, err
}

// Call invokes a tool and returns its text payload. isError reports a tool
// level error result.
func Call(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

// CallJSON invokes a tool that must succeed and decodes its JSON payload.
func CallJSON(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	text, isError := Call(t, session, name, args)
	require.False(t, isError, "tool %s failed: %s", name, text)
	require.NoError(t, json.Unmarshal([]byte(text), out), "decoding %s result", name)
}

// CallError invokes a tool that must fail and returns its error payload.
func CallError(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) mcp.APIError {
	t.Helper()
	text, isError := Call(t, session, name, args)
	require.True(t, isError, "tool %s unexpectedly succeeded: %s", name, text)
	var apiErr mcp.APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	return apiErr
}

func openApp(t *testing.T, opts Options) *app.App {
	t.Helper()
	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Ledger.StrictEdits = opts.StrictEdits

	a, err := app.Open(cfg, nil)
	require.NoError(t, err, "opening test app")
	t.Cleanup(func() { _ = a.Close() })
	return a
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if b.token != "" {
		clone.Header.Set("Authorization", fmt.Sprintf("Bearer %s", b.token))
	}
	return b.base.RoundTrip(clone)
}
