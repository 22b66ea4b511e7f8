// SPDX-License-Identifier: Apache-2.0

// Package catalog resolves the per-OS customization script directory into
// the fixed anchor scripts and the selectable optional scripts.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

const (
	// BaseScript runs first in every pipeline.
	BaseScript = "base"
	// CleanScript runs last in every pipeline.
	CleanScript = "clean"
)

// MissingAnchorError reports an absent base or clean anchor script.
type MissingAnchorError struct {
	Path string
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("missing script: %s", e.Path)
}

// Catalog holds the resolved scripts for one OS tag.
type Catalog struct {
	OSTag    string
	Dir      string   // script directory for the OS tag
	Base     string   // path to the base anchor script
	Clean    string   // path to the clean anchor script
	Optional []string // optional script names, sorted lexicographically
}

// Resolve validates the anchors and lists the optional scripts for an OS
// tag. The optional list holds bare names, sorted by name so repeated runs
// present the same order; pipeline order comes from user selection, never
// from this list.
func Resolve(scriptRoot, osTag string) (*Catalog, error) {
	dir := filepath.Join(scriptRoot, osTag)

	base := filepath.Join(dir, BaseScript)
	if !isRegularFile(base) {
		return nil, &MissingAnchorError{Path: base}
	}

	clean := filepath.Join(dir, CleanScript)
	if !isRegularFile(clean) {
		return nil, &MissingAnchorError{Path: clean}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read script directory %s: %w", dir, err)
	}

	var optional []string
	for _, entry := range entries {
		name := entry.Name()
		if name == BaseScript || name == CleanScript {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		optional = append(optional, name)
	}
	sort.Strings(optional)

	log.Debugf("Resolved catalog for %s: %d optional scripts", osTag, len(optional))

	return &Catalog{
		OSTag:    osTag,
		Dir:      dir,
		Base:     base,
		Clean:    clean,
		Optional: optional,
	}, nil
}

// ScriptPath returns the full path of a script by name.
func (c *Catalog) ScriptPath(name string) string {
	return filepath.Join(c.Dir, name)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
