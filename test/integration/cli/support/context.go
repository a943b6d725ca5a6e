package support

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	// Command execution state
	LastCommand    string
	LastOutput     string
	LastStderr     string
	LastError      error
	LastStartTime  time.Time
	LastDuration   time.Duration
	LastOutputFile string

	// Test environment
	WorkingDir  string
	TempDir     string
	previousDir string
	envBackup   map[string]*string

	// Server state
	HTTPTestServer *HTTPTestServerWrapper

	// HTTP response state
	LastHTTPStatusCode int
	LastHTTPResponse   string
	LastHTTPHeaders    map[string]string
}

// NewTestContext creates a scenario context rooted in a fresh temporary
// directory. The process changes into that directory so relative paths in
// commands resolve there and no project configuration is picked up.
func NewTestContext() (*TestContext, error) {
	previous, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "contours-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		_ = os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to enter temp directory: %w", err)
	}

	ctx := &TestContext{
		WorkingDir:      tempDir,
		TempDir:         tempDir,
		previousDir:     previous,
		envBackup:       map[string]*string{},
		LastHTTPHeaders: map[string]string{},
	}
	ctx.SetEnv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg"))
	return ctx, nil
}

// SetEnv sets an environment variable for the rest of the scenario. The
// previous value is restored by Cleanup.
func (testCtx *TestContext) SetEnv(name, value string) {
	if _, seen := testCtx.envBackup[name]; !seen {
		if old, ok := os.LookupEnv(name); ok {
			testCtx.envBackup[name] = &old
		} else {
			testCtx.envBackup[name] = nil
		}
	}
	_ = os.Setenv(name, value)
}

// Cleanup stops the server, restores the environment and removes the
// temporary directory.
func (testCtx *TestContext) Cleanup() error {
	var errs []error

	testCtx.StopServer()

	for name, old := range testCtx.envBackup {
		if old == nil {
			_ = os.Unsetenv(name)
			continue
		}
		_ = os.Setenv(name, *old)
	}

	if err := os.Chdir(testCtx.previousDir); err != nil {
		errs = append(errs, fmt.Errorf("failed to restore working directory: %w", err))
	}
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err))
	}
	return errors.Join(errs...)
}

// Path resolves name inside the scenario directory.
func (testCtx *TestContext) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.WorkingDir, name)
}
