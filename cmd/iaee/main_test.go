package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/iaee/internal/cli"
	"github.com/aretw0/iaee/internal/config"
	"github.com/aretw0/iaee/internal/logging"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const validExperience = `{
	"id": "review",
	"title": "T",
	"author": "A",
	"sections": [
		{"id": "q", "type": "choice", "options": [{"id": "x", "label": "X"}]},
		{"id": "api", "type": "api-builder"},
		{"id": "d", "type": "decision"}
	]
}`

// execute runs the root command with args, resetting every flag first so
// tests do not leak flag values into each other.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "iaee version "))
}

func TestTypes(t *testing.T) {
	out, _, err := execute(t, "types")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, "info", lines[0])
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", validExperience)
	bad := writeFile(t, dir, "bad.yaml", "id: e\ntitle: T\nauthor: A\nsections:\n  - id: i\n    type: info\n")

	out, _, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json is valid (3 sections)")

	out, stderr, err := execute(t, "validate", good, bad)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "good.json is valid")
	assert.Contains(t, stderr, "❌ Validation Failed for "+bad+":")
	assert.Contains(t, stderr, "  - [sections.0.content]: Required")

	_, stderr, err = execute(t, "validate", writeFile(t, dir, "x.txt", "{}"))
	assert.Error(t, err)
	assert.Contains(t, stderr, "unsupported experience format")
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	exp := writeFile(t, dir, "review.json", validExperience)
	results := writeFile(t, dir, "results.yaml", `
q: x
d: true
api:
  method: GET
  path: /users/:id
  responseCode: 200
`)
	comments := writeFile(t, dir, "comments.json", `{"q": "Looks good"}`)
	openapi := filepath.Join(dir, "api.yaml")

	out, _, err := execute(t, "compile", exp, "--results", results, "--comments", comments, "--openapi", openapi)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# T\n\n*By A*\n\n---\n"))
	assert.Contains(t, out, "- X (x)")
	assert.Contains(t, out, "> **Reviewer Comment:**\n> Looks good")
	assert.Contains(t, out, "GET /users/:id")
	assert.Contains(t, out, "✅ **Status:** Approved")

	data, err := os.ReadFile(openapi)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Contains(t, doc["paths"], "/users/{id}")
}

func TestCompile_Out(t *testing.T) {
	dir := t.TempDir()
	exp := writeFile(t, dir, "review.json", validExperience)
	outPath := filepath.Join(dir, "report.md")

	out, _, err := execute(t, "compile", exp, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	report, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "*No selections*")
	assert.Contains(t, string(report), "❌ **Status:** Rejected")
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	exp := writeFile(t, dir, "review.json", validExperience)

	_, _, err := execute(t, "compile", exp, "--results", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read results")

	bad := writeFile(t, dir, "results.json", `["x"]`)
	_, _, err = execute(t, "compile", exp, "--results", bad)
	assert.ErrorContains(t, err, "invalid results")

	invalid := writeFile(t, dir, "invalid.json", `{"id": "e", "title": "T", "author": "A", "sections": []}`)
	_, stderr, err := execute(t, "compile", invalid)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "Experience must contain exactly one DecisionSection")
}

func TestGraph(t *testing.T) {
	dir := t.TempDir()
	exp := writeFile(t, dir, "review.json", validExperience)
	results := writeFile(t, dir, "results.json", `{"q": "x"}`)

	out, _, err := execute(t, "graph", exp, "--results", results)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "class s_q answered;")
	assert.Contains(t, out, "class s_api current;")
}

func TestReports(t *testing.T) {
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	configPath := writeFile(t, dir, "iaee.yaml", "output:\n  reports_dir: "+filepath.Join(dir, "reports")+"\n  encryption_key: "+key+"\n")

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	rt, err := cli.NewRuntime(context.Background(), loaded, logging.NewNop(), false)
	require.NoError(t, err)
	exp, err := rt.Engine.Decode(context.Background(), []byte(validExperience), "json")
	require.NoError(t, err)
	report, err := rt.Engine.Submit(context.Background(), exp, domain.Results{"q": "x", "d": true}, nil)
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	out, _, err := execute(t, "reports", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, report.ID+"\n", out)

	out, _, err = execute(t, "reports", "show", report.ID, "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, report.Markdown, out, "decrypted on read")

	out, _, err = execute(t, "reports", "show", report.ID, "--json", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"approved": true`)

	_, _, err = execute(t, "reports", "delete", report.ID, "--config", configPath)
	require.NoError(t, err)
	_, _, err = execute(t, "reports", "show", report.ID, "--config", configPath)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	_, _, err = execute(t, "reports", "list", "--config", filepath.Join(dir, "none.yaml"))
	assert.ErrorIs(t, err, errNoArchive)
}
