package support

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/contours/internal/config"
	"github.com/MeKo-Tech/contours/internal/server"
)

// HTTPTestServerWrapper pairs the contour server with the httptest server
// serving its routes.
type HTTPTestServerWrapper struct {
	Server     *httptest.Server
	TestServer *server.Server
}

// theServerIsRunning starts the real HTTP server on a loopback port.
func (testCtx *TestContext) theServerIsRunning() error {
	return testCtx.startServer(server.Config{})
}

// theServerIsRunningWithRateLimit starts a server that allows n requests
// per minute.
func (testCtx *TestContext) theServerIsRunningWithRateLimit(n int) error {
	rl := config.DefaultConfig().Server.RateLimit
	rl.Enabled = true
	rl.RequestsPerMinute = n
	return testCtx.startServer(server.Config{RateLimit: rl})
}

func (testCtx *TestContext) theServerIsRunningWithMaxCells(n int) error {
	return testCtx.startServer(server.Config{MaxGridCells: n})
}

func (testCtx *TestContext) startServer(cfg server.Config) error {
	testCtx.StopServer()

	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	s, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	testCtx.HTTPTestServer = &HTTPTestServerWrapper{
		Server:     httptest.NewServer(mux),
		TestServer: s,
	}
	return nil
}

// StopServer shuts the test server down if one is running.
func (testCtx *TestContext) StopServer() {
	if testCtx.HTTPTestServer == nil {
		return
	}
	testCtx.HTTPTestServer.Server.Close()
	_ = testCtx.HTTPTestServer.TestServer.Close()
	testCtx.HTTPTestServer = nil
}

func (testCtx *TestContext) request(method, path, body string) error {
	if testCtx.HTTPTestServer == nil {
		return fmt.Errorf("server is not running")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, testCtx.HTTPTestServer.Server.URL+path, strings.NewReader(body))
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Origin", "http://example.com")

	resp, err := testCtx.HTTPTestServer.Server.Client().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(data)
	testCtx.LastHTTPHeaders = map[string]string{}
	for name := range resp.Header {
		testCtx.LastHTTPHeaders[name] = resp.Header.Get(name)
	}
	return nil
}

func (testCtx *TestContext) iGET(path string) error {
	return testCtx.request(http.MethodGet, path, "")
}

func (testCtx *TestContext) iPOSTWithBody(path string, body *godog.DocString) error {
	return testCtx.request(http.MethodPost, path, body.Content)
}

func (testCtx *TestContext) iPOSTTimes(path string, n int, body *godog.DocString) error {
	for range n {
		if err := testCtx.request(http.MethodPost, path, body.Content); err != nil {
			return err
		}
	}
	return nil
}

func (testCtx *TestContext) iSendAnOPTIONSRequestTo(path string) error {
	return testCtx.request(http.MethodOptions, path, "")
}

func (testCtx *TestContext) theResponseStatusShouldBe(code int) error {
	if testCtx.LastHTTPStatusCode != code {
		return fmt.Errorf("status is %d, want %d\nBody: %s", testCtx.LastHTTPStatusCode, code, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldContain(text string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, text) {
		return fmt.Errorf("response does not contain '%s'\nBody: %s", text, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseJSONFieldShouldBe(field, want string) error {
	return checkJSONField(testCtx.LastHTTPResponse, field, want)
}

func (testCtx *TestContext) theResponseJSONFieldShouldHaveEntries(field string, n int) error {
	return checkJSONLength(testCtx.LastHTTPResponse, field, n)
}

func (testCtx *TestContext) theResponseHeaderShouldBe(name, want string) error {
	got, ok := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]
	if !ok {
		return fmt.Errorf("header %s missing", name)
	}
	if got != want {
		return fmt.Errorf("header %s is %q, want %q", name, got, want)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldBePresent(name string) error {
	if _, ok := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]; !ok {
		return fmt.Errorf("header %s missing", name)
	}
	return nil
}

// RegisterServerSteps registers the HTTP API steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the server is running$`, testCtx.theServerIsRunning)
	sc.Step(`^the server is running with a limit of (\d+) requests per minute$`, testCtx.theServerIsRunningWithRateLimit)
	sc.Step(`^the server is running with at most (\d+) grid cells$`, testCtx.theServerIsRunningWithMaxCells)
	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGET)
	sc.Step(`^I POST to "([^"]*)" with body:$`, testCtx.iPOSTWithBody)
	sc.Step(`^I POST to "([^"]*)" (\d+) times with body:$`, testCtx.iPOSTTimes)
	sc.Step(`^I send an OPTIONS request to "([^"]*)"$`, testCtx.iSendAnOPTIONSRequestTo)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseJSONFieldShouldBe)
	sc.Step(`^the response JSON field "([^"]*)" should have (\d+) entr(?:y|ies)$`, testCtx.theResponseJSONFieldShouldHaveEntries)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)
	sc.Step(`^the response header "([^"]*)" should be present$`, testCtx.theResponseHeaderShouldBePresent)
}
