package support

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/contours/cmd/contours/cmd"
	"github.com/MeKo-Tech/contours/internal/gridio"
	"github.com/MeKo-Tech/contours/internal/testutil"
)

// sampleGrids are the named grids scenarios can ask for.
var sampleGrids = map[string]func() *gridio.Source{
	"ramp": func() *gridio.Source {
		return &gridio.Source{Kind: gridio.Uniform, Z: [][]float64{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}}, Step: [2]float64{1, 1}}
	},
	"cone": func() *gridio.Source {
		x, y, z := testutil.ConeGrid()
		return &gridio.Source{Kind: gridio.Uniform, Z: z, Origin: [2]float64{x[0], y[0]}, Step: [2]float64{x[1] - x[0], y[1] - y[0]}}
	},
	"peak": func() *gridio.Source {
		return &gridio.Source{Kind: gridio.Uniform, Z: testutil.IsolatedPoint(5, 1, 0), Step: [2]float64{1, 1}}
	},
}

// aSampleGridFile writes one of the named sample grids. The encoding
// follows the file extension.
func (testCtx *TestContext) aSampleGridFile(name, file string) error {
	build, ok := sampleGrids[name]
	if !ok {
		return fmt.Errorf("unknown sample grid %q", name)
	}
	src := build()

	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		err = gridio.EncodeJSON(&buf, src)
	case ".csv":
		err = gridio.EncodeCSV(&buf, src)
	case ".asc":
		err = gridio.EncodeASC(&buf, src)
	default:
		return fmt.Errorf("no encoder for %s", file)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}
	return testCtx.writeFile(file, buf.String())
}

// aFileWithContent writes a file from a doc string.
func (testCtx *TestContext) aFileWithContent(file string, content *godog.DocString) error {
	return testCtx.writeFile(file, content.Content)
}

func (testCtx *TestContext) aDirectory(dir string) error {
	return testutil.EnsureDir(testCtx.Path(dir))
}

func (testCtx *TestContext) writeFile(file, content string) error {
	path := testCtx.Path(file)
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// iRunCommand executes the CLI in-process and stores the result. The first
// word must be the program name.
func (testCtx *TestContext) iRunCommand(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if parts[0] != "contours" {
		return fmt.Errorf("unsupported program %q", parts[0])
	}

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	root := cmd.GetRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(parts[1:])
	testCtx.LastError = root.Execute()

	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	for i, p := range parts {
		if (p == "-o" || p == "--output") && i+1 < len(parts) {
			testCtx.LastOutputFile = parts[i+1]
		}
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastError != nil {
		return fmt.Errorf("command failed: %w\nStderr: %s", testCtx.LastError, testCtx.LastStderr)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldStartWith compares the first line of the output.
func (testCtx *TestContext) theOutputShouldStartWith(line string) error {
	first, _, _ := strings.Cut(testCtx.LastOutput, "\n")
	if first != line {
		return fmt.Errorf("first line is %q, want %q", first, line)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldHaveLines(n int) error {
	got := strings.Count(testCtx.LastOutput, "\n")
	if got != n {
		return fmt.Errorf("output has %d lines, want %d\nActual output: %s", got, n, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nOutput: %s", err, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeValidCSV() error {
	records, err := csv.NewReader(strings.NewReader(testCtx.LastOutput)).ReadAll()
	if err != nil {
		return fmt.Errorf("output is not valid CSV: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("CSV has %d records, want a header and at least one row", len(records))
	}
	return nil
}

// theJSONFieldShouldBe checks a dotted path in the JSON output. Numeric
// path elements index arrays.
func (testCtx *TestContext) theJSONFieldShouldBe(field, want string) error {
	return checkJSONField(testCtx.LastOutput, field, want)
}

func (testCtx *TestContext) theJSONShouldHaveLevels(n int) error {
	return checkJSONLength(testCtx.LastOutput, "levels", n)
}

func (testCtx *TestContext) theJSONFieldShouldHaveEntries(field string, n int) error {
	return checkJSONLength(testCtx.LastOutput, field, n)
}

func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}
	full := testCtx.LastError.Error() + " " + testCtx.LastStderr
	if !strings.Contains(strings.ToLower(full), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, full)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldExist(filename string) error {
	if !testutil.FileExists(testCtx.Path(filename)) {
		return fmt.Errorf("file %s does not exist", filename)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldContain(filename, expectedContent string) error {
	data, err := os.ReadFile(testCtx.Path(filename)) //nolint:gosec // G304: scenario-controlled path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !strings.Contains(string(data), expectedContent) {
		return fmt.Errorf("file %s does not contain '%s'\nContent: %s", filename, expectedContent, data)
	}
	return nil
}

func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.SetEnv(name, value)
	return nil
}

func decodeJSON(body string) (any, error) {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w\nBody: %s", err, body)
	}
	return data, nil
}

func lookupJSON(data any, field string) (any, error) {
	current := data
	for i, part := range strings.Split(field, ".") {
		switch node := current.(type) {
		case map[string]any:
			val, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in JSON", strings.Join(strings.Split(field, ".")[:i+1], "."))
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range for array of %d", part, len(node))
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("cannot navigate into '%s'", part)
		}
	}
	return current, nil
}

func checkJSONField(body, field, want string) error {
	data, err := decodeJSON(body)
	if err != nil {
		return err
	}
	val, err := lookupJSON(data, field)
	if err != nil {
		return err
	}
	got := fmt.Sprint(val)
	if got != want {
		return fmt.Errorf("field '%s' is %q, want %q", field, got, want)
	}
	return nil
}

func checkJSONLength(body, field string, n int) error {
	data, err := decodeJSON(body)
	if err != nil {
		return err
	}
	val, err := lookupJSON(data, field)
	if err != nil {
		return err
	}
	arr, ok := val.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not an array", field)
	}
	if len(arr) != n {
		return fmt.Errorf("field '%s' has %d entries, want %d", field, len(arr), n)
	}
	return nil
}

func (testCtx *TestContext) registerFixtureSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the sample grid "([^"]*)" is saved as "([^"]*)"$`, testCtx.aSampleGridFile)
	sc.Step(`^a file "([^"]*)" with content:$`, testCtx.aFileWithContent)
	sc.Step(`^a directory "([^"]*)"$`, testCtx.aDirectory)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}

func (testCtx *TestContext) registerCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
}

func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should start with "([^"]*)"$`, testCtx.theOutputShouldStartWith)
	sc.Step(`^the output should have (\d+) lines?$`, testCtx.theOutputShouldHaveLines)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the output should be valid CSV$`, testCtx.theOutputShouldBeValidCSV)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^the JSON should have (\d+) levels?$`, testCtx.theJSONShouldHaveLevels)
	sc.Step(`^the JSON field "([^"]*)" should have (\d+) entr(?:y|ies)$`, testCtx.theJSONFieldShouldHaveEntries)
}

func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the output file should contain "([^"]*)"$`, func(content string) error {
		if testCtx.LastOutputFile == "" {
			return errors.New("last command wrote no output file")
		}
		return testCtx.theFileShouldContain(testCtx.LastOutputFile, content)
	})
}

// RegisterCommonSteps registers fixture, command, output and file steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerFixtureSteps(sc)
	testCtx.registerCommandSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerFileSteps(sc)
}
