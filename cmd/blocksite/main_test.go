// ABOUTME: Tests for the blocksite CLI covering config loading, route inspection, and block checks.
// ABOUTME: Each test runs in a fresh working directory so no .env or blocksite.yaml leaks in.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/blocksite/store"
)

// runCLI executes the root command with args inside a temp working directory
// and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// siteRoot prepares an isolated site directory and returns it.
func siteRoot(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PORT", "")
	return t.TempDir()
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	siteRoot(t)
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "blocksite ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRoutesListDefault(t *testing.T) {
	root := siteRoot(t)
	out, err := runCLI(t, "--root", root, "routes", "list")
	if err != nil {
		t.Fatalf("routes list: %v", err)
	}
	if !strings.Contains(out, "homepage") || !strings.Contains(out, "data/content/homepage.json") {
		t.Errorf("expected default homepage route, got:\n%s", out)
	}
}

func TestRoutesCheck(t *testing.T) {
	root := siteRoot(t)

	out, err := runCLI(t, "--root", root, "routes", "check")
	if err != nil {
		t.Fatalf("routes check on defaults: %v", err)
	}
	if !strings.Contains(out, "routes ok") {
		t.Errorf("expected ok, got %q", out)
	}

	writeFile(t, filepath.Join(root, "data", "routes.json"), `[
  {"path": "/", "name": "homepage", "blockIds": ["a.json"]},
  {"path": "/", "name": "homepage", "blockIds": []}
]`)
	out, err = runCLI(t, "--root", root, "routes", "check")
	if err == nil {
		t.Fatal("expected problems to fail the check")
	}
	if !strings.Contains(out, "homepage") {
		t.Errorf("expected problems listed, got:\n%s", out)
	}
}

func TestRoutesFileFlag(t *testing.T) {
	root := siteRoot(t)
	writeFile(t, filepath.Join(root, "site", "index.json"), `[
  {"path": "/about", "name": "about", "blockIds": ["data/content/about.json"]}
]`)

	out, err := runCLI(t, "--root", root, "--routes-file", "site/index.json", "routes", "list")
	if err != nil {
		t.Fatalf("routes list: %v", err)
	}
	if !strings.Contains(out, "/about") || strings.Contains(out, "homepage") {
		t.Errorf("expected only the about route, got:\n%s", out)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	root := siteRoot(t)
	writeFile(t, filepath.Join(root, "alt.json"), `[{"path": "/x", "name": "x", "blockIds": ["x.json"]}]`)
	t.Setenv("BLOCKSITE_ROOT", root)
	t.Setenv("BLOCKSITE_ROUTES_FILE", "alt.json")

	out, err := runCLI(t, "routes", "list")
	if err != nil {
		t.Fatalf("routes list: %v", err)
	}
	if !strings.Contains(out, "x.json") {
		t.Errorf("expected env-configured routes, got:\n%s", out)
	}
}

func TestBlocksShow(t *testing.T) {
	root := siteRoot(t)

	out, err := runCLI(t, "--root", root, "blocks", "show", "homepage")
	if err != nil {
		t.Fatalf("blocks show: %v", err)
	}
	if !strings.Contains(out, `"blocks": []`) {
		t.Errorf("expected empty document, got:\n%s", out)
	}

	out, err = runCLI(t, "--root", root, "blocks", "show", "homepage", "--default")
	if err != nil {
		t.Fatalf("blocks show --default: %v", err)
	}
	if !strings.Contains(out, "Eng Manager") {
		t.Errorf("expected seed content, got:\n%s", out)
	}

	_, err = runCLI(t, "--root", root, "blocks", "show", "missing")
	if !errors.Is(err, store.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestBlocksCheck(t *testing.T) {
	root := siteRoot(t)
	path := filepath.Join(root, "data", "content", "homepage.json")

	out, err := runCLI(t, "--root", root, "blocks", "check", "homepage")
	if err != nil {
		t.Fatalf("blocks check without file: %v", err)
	}
	if !strings.Contains(out, "no content file yet") {
		t.Errorf("unexpected output %q", out)
	}

	writeFile(t, path, `{"blocks": [{"id": "a", "type": "Hero", "props": {"headline": "h", "subheadline": "s"}}]}`)
	out, err = runCLI(t, "--root", root, "blocks", "check", "homepage")
	if err != nil {
		t.Fatalf("blocks check: %v", err)
	}
	if !strings.Contains(out, "1 block(s) ok") {
		t.Errorf("unexpected output %q", out)
	}

	writeFile(t, path, `{"blocks": [{"type": "Footer", "props": {}}]}`)
	if _, err := runCLI(t, "--root", root, "blocks", "check", "homepage"); err == nil {
		t.Error("expected unknown block type to fail the check")
	}

	writeFile(t, path, `{"blocks": [
  {"id": "a", "type": "Hero", "props": {"headline": "h", "subheadline": "s"}},
  {"id": "a", "type": "Hero", "props": {"headline": "h", "subheadline": "s"}}
]}`)
	_, err = runCLI(t, "--root", root, "blocks", "check", "homepage")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestInvalidBindFails(t *testing.T) {
	root := siteRoot(t)
	t.Setenv("BLOCKSITE_BIND", "not-an-address")
	if _, err := runCLI(t, "--root", root, "routes", "list"); err == nil {
		t.Error("expected invalid bind to fail config loading")
	}
}
