// SPDX-License-Identifier: Apache-2.0
package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ComputesPathsWithoutTouchingFilesystem(t *testing.T) {
	base := filepath.Join(t.TempDir(), "scratch")

	ws := New(base, "debian-13-net-20240101_000000")

	wantRoot := filepath.Join(base, "debian-13-net-20240101_000000")
	if ws.Root != wantRoot {
		t.Errorf("Root = %s, want %s", ws.Root, wantRoot)
	}
	if ws.ImagePath != filepath.Join(wantRoot, "debian-13-net-20240101_000000.img") {
		t.Errorf("Unexpected ImagePath: %s", ws.ImagePath)
	}
	if ws.CompressedPath != filepath.Join(wantRoot, "debian-13-net-20240101_000000-compressed.img") {
		t.Errorf("Unexpected CompressedPath: %s", ws.CompressedPath)
	}

	// New must not create anything
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Error("New created the scratch base")
	}
}

func TestCreate_MakesWorkspaceAndSharedDirs(t *testing.T) {
	tmp := t.TempDir()
	downloadDir := filepath.Join(tmp, "download")
	outputDir := filepath.Join(tmp, "output")

	ws := New(filepath.Join(tmp, "scratch"), "run1")
	if err := ws.Create(downloadDir, outputDir); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, dir := range []string{ws.Root, downloadDir, outputDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestRemove_DeletesTree(t *testing.T) {
	tmp := t.TempDir()

	ws := New(tmp, "run1")
	if err := ws.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.WriteFile(ws.ImagePath, []byte("img"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := ws.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(ws.Root); !os.IsNotExist(err) {
		t.Error("Workspace root still exists after Remove")
	}
}

func TestRemove_MissingWorkspaceIsNotAnError(t *testing.T) {
	ws := New(t.TempDir(), "never-created")
	if err := ws.Remove(); err != nil {
		t.Errorf("Remove of absent workspace failed: %v", err)
	}
}
