// SPDX-License-Identifier: Apache-2.0

// Package workspace manages the per-run scratch directory that holds
// intermediate image artifacts before publication.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Workspace is the exclusively owned scratch directory for a single build
// run, keyed by the build identity.
type Workspace struct {
	Root           string // per-run directory under the scratch base
	ImagePath      string // target image before sparsify
	CompressedPath string // sparsified image awaiting publication
}

// New computes the workspace paths for a build identity without touching
// the filesystem. Dry runs stop here.
func New(base, id string) *Workspace {
	root := filepath.Join(base, id)
	return &Workspace{
		Root:           root,
		ImagePath:      filepath.Join(root, id+".img"),
		CompressedPath: filepath.Join(root, id+"-compressed.img"),
	}
}

// Create makes the workspace directory along with any shared directories
// the run needs. Must be called before any pipeline command executes.
func (w *Workspace) Create(shared ...string) error {
	for _, dir := range append([]string{w.Root}, shared...) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	log.Debugf("Workspace ready at %s", w.Root)
	return nil
}

// Remove deletes the workspace tree. Called only after the final artifact
// has been copied out; on stage failure the workspace is kept for
// inspection instead.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", w.Root, err)
	}
	return nil
}
