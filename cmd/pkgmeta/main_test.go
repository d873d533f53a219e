package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validManifest = `name: example.pkg
version: "1.0"
packages:
  - example.pkg
license: MIT
url: https://example.com/pkg
`

func TestRunUsage(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Errorf("expected exit 2 with no arguments, got %d", code)
	}
	if code := run([]string{"bogus"}); code != 2 {
		t.Errorf("expected exit 2 for unknown command, got %d", code)
	}
	if code := run([]string{"version"}); code != 0 {
		t.Errorf("expected exit 0 for version, got %d", code)
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeManifest(t, validManifest)

	if code := run([]string{"validate", "-f", path}); code != 0 {
		t.Errorf("expected exit 0 for valid manifest, got %d", code)
	}

	bad := writeManifest(t, "name: example\nversion: \"not a version\"\npackages: [example]\n")
	if code := run([]string{"validate", "-f", bad}); code != 1 {
		t.Errorf("expected exit 1 for invalid manifest, got %d", code)
	}

	if code := run([]string{"validate"}); code != 2 {
		t.Errorf("expected exit 2 without -f, got %d", code)
	}
}

func TestRegisterShowListRemove(t *testing.T) {
	siteDir := filepath.Join(t.TempDir(), "site")
	manifest := writeManifest(t, validManifest)

	if code := run([]string{"register", "-f", manifest, "-site", siteDir}); code != 0 {
		t.Fatalf("register failed with exit %d", code)
	}

	if code := run([]string{"show", "-site", siteDir, "example.pkg"}); code != 0 {
		t.Errorf("show by name failed with exit %d", code)
	}
	if code := run([]string{"show", "-site", siteDir, "pkg:pypi/example-pkg@1.0"}); code != 0 {
		t.Errorf("show by PURL failed with exit %d", code)
	}
	if code := run([]string{"list", "-site", siteDir}); code != 0 {
		t.Errorf("list failed with exit %d", code)
	}

	if code := run([]string{"remove", "-site", siteDir, "example.pkg"}); code != 0 {
		t.Errorf("remove failed with exit %d", code)
	}
	if code := run([]string{"show", "-site", siteDir, "example.pkg"}); code != 1 {
		t.Errorf("expected exit 1 for removed distribution, got %d", code)
	}
}

func TestRegisterDefaultDescriptor(t *testing.T) {
	siteDir := filepath.Join(t.TempDir(), "site")

	if code := run([]string{"register", "-site", siteDir}); code != 0 {
		t.Fatalf("register failed with exit %d", code)
	}
	if code := run([]string{"show", "-site", siteDir, "warwick.observatory.efafocus"}); code != 0 {
		t.Errorf("show failed with exit %d", code)
	}
}

func TestRemoveRetireFlag(t *testing.T) {
	siteDir := filepath.Join(t.TempDir(), "site")
	manifest := writeManifest(t, validManifest)

	if code := run([]string{"register", "-f", manifest, "-site", siteDir}); code != 0 {
		t.Fatalf("register failed with exit %d", code)
	}

	if code := run([]string{"remove", "-site", siteDir, "-retire", "example.pkg"}); code != 0 {
		t.Errorf("retire failed with exit %d", code)
	}

	// A retired distribution is still visible.
	if code := run([]string{"show", "-site", siteDir, "example.pkg"}); code != 0 {
		t.Errorf("show failed with exit %d", code)
	}
}

func TestRegisterConflictExitCode(t *testing.T) {
	siteDir := filepath.Join(t.TempDir(), "site")
	manifest := writeManifest(t, validManifest)

	if code := run([]string{"register", "-f", manifest, "-site", siteDir}); code != 0 {
		t.Fatalf("register failed with exit %d", code)
	}

	next := writeManifest(t, "name: example.pkg\nversion: \"2.0\"\npackages: [example.pkg]\n")
	if code := run([]string{"register", "-f", next, "-site", siteDir}); code != 1 {
		t.Errorf("expected exit 1 for version conflict, got %d", code)
	}
	if code := run([]string{"register", "-f", next, "-site", siteDir, "-replace"}); code != 0 {
		t.Errorf("expected exit 0 with -replace, got %d", code)
	}
}

func TestCheckCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pypi/taken/json" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"info": map[string]any{"name": "taken"}})
			return
		}
		w.WriteHeader(404)
	}))
	defer server.Close()

	if code := run([]string{"check", "-index", server.URL, "taken"}); code != 0 {
		t.Errorf("check failed with exit %d", code)
	}
	if code := run([]string{"check", "-index", server.URL, "unclaimed"}); code != 0 {
		t.Errorf("check failed with exit %d", code)
	}
	if code := run([]string{"check", "-index", server.URL}); code != 2 {
		t.Errorf("expected exit 2 without a name, got %d", code)
	}
}

func TestDiscoverCommand(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "example")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "__init__.py"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{"discover", "-root", root}); code != 0 {
		t.Errorf("discover failed with exit %d", code)
	}
}
