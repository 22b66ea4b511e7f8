// SPDX-License-Identifier: Apache-2.0

// Package pipeline assembles the ordered customization stage list and runs
// the external commands that apply it.
package pipeline

import (
	"strings"
	"time"

	"github.com/Work-Fort/Bellows/pkg/catalog"
)

// TimestampFormat produces filesystem-safe, lexically sortable run
// timestamps used for workspace and artifact naming.
const TimestampFormat = "20060102_150405"

// Pipeline is the ordered list of script stage names applied to an image
// in a single customize invocation. The first stage is always base and the
// last is always clean; the interior preserves user selection order.
type Pipeline struct {
	Stages []string
}

// Assemble brackets the user's ordered selection with the anchor stages.
// Pure function: the chosen slice is used in selection order, never
// reordered to match the catalog.
func Assemble(cat *catalog.Catalog, chosen []string) Pipeline {
	stages := make([]string, 0, len(chosen)+2)
	stages = append(stages, catalog.BaseScript)
	stages = append(stages, chosen...)
	stages = append(stages, catalog.CleanScript)
	return Pipeline{Stages: stages}
}

// Interior returns the stages between the anchors, i.e. the user's
// ordered selection.
func (p Pipeline) Interior() []string {
	return p.Stages[1 : len(p.Stages)-1]
}

// Identity derives the deterministic build identity from the OS tag, the
// ordered customization tags and the run timestamp. Used as both the
// workspace key and the final artifact filename stem.
func Identity(osTag string, orderedTags []string, timestamp string) string {
	tag := osTag
	if len(orderedTags) > 0 {
		tag += "-" + strings.Join(orderedTags, "-")
	}
	return tag + "-" + timestamp
}

// Timestamp formats a run time in TimestampFormat.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}
