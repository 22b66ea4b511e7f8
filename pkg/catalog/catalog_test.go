// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeScript(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write script %s: %v", name, err)
	}
}

func setupScriptDir(t *testing.T, osTag string, names ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, osTag)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create script dir: %v", err)
	}
	for _, name := range names {
		writeScript(t, dir, name)
	}
	return root
}

func TestResolve_Success(t *testing.T) {
	root := setupScriptDir(t, "debian-13", "base", "clean", "users", "net", "docker")

	cat, err := Resolve(root, "debian-13")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cat.Base != filepath.Join(root, "debian-13", "base") {
		t.Errorf("Unexpected base path: %s", cat.Base)
	}
	if cat.Clean != filepath.Join(root, "debian-13", "clean") {
		t.Errorf("Unexpected clean path: %s", cat.Clean)
	}

	// Optional scripts must be sorted lexicographically
	want := []string{"docker", "net", "users"}
	if !reflect.DeepEqual(cat.Optional, want) {
		t.Errorf("Optional = %v, want %v", cat.Optional, want)
	}
}

func TestResolve_NoOptionalScripts(t *testing.T) {
	root := setupScriptDir(t, "ubuntu-2204", "base", "clean")

	cat, err := Resolve(root, "ubuntu-2204")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(cat.Optional) != 0 {
		t.Errorf("Expected no optional scripts, got %v", cat.Optional)
	}
}

func TestResolve_MissingAnchors(t *testing.T) {
	tests := []struct {
		name    string
		scripts []string
		missing string
	}{
		{name: "missing base", scripts: []string{"clean", "users"}, missing: "base"},
		{name: "missing clean", scripts: []string{"base", "users"}, missing: "clean"},
		{name: "missing both reports base first", scripts: []string{"users"}, missing: "base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := setupScriptDir(t, "debian-13", tt.scripts...)

			_, err := Resolve(root, "debian-13")
			if err == nil {
				t.Fatal("Expected error for missing anchor, got nil")
			}

			var missingErr *MissingAnchorError
			if !errors.As(err, &missingErr) {
				t.Fatalf("Expected *MissingAnchorError, got %T: %v", err, err)
			}
			if filepath.Base(missingErr.Path) != tt.missing {
				t.Errorf("Error names %s, want %s", missingErr.Path, tt.missing)
			}
		})
	}
}

func TestResolve_AnchorIsDirectory(t *testing.T) {
	root := setupScriptDir(t, "debian-13", "clean")
	if err := os.MkdirAll(filepath.Join(root, "debian-13", "base"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	_, err := Resolve(root, "debian-13")
	var missingErr *MissingAnchorError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected *MissingAnchorError for directory anchor, got %T: %v", err, err)
	}
}

func TestResolve_SubdirectoriesExcluded(t *testing.T) {
	root := setupScriptDir(t, "debian-13", "base", "clean", "users")
	if err := os.MkdirAll(filepath.Join(root, "debian-13", "fragments"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	cat, err := Resolve(root, "debian-13")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"users"}
	if !reflect.DeepEqual(cat.Optional, want) {
		t.Errorf("Optional = %v, want %v", cat.Optional, want)
	}
}

func TestScriptPath(t *testing.T) {
	root := setupScriptDir(t, "debian-13", "base", "clean", "users")

	cat, err := Resolve(root, "debian-13")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := filepath.Join(root, "debian-13", "users")
	if got := cat.ScriptPath("users"); got != want {
		t.Errorf("ScriptPath = %s, want %s", got, want)
	}
}
