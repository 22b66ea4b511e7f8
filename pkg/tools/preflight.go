// SPDX-License-Identifier: Apache-2.0

// Package tools checks the external image tools the pipeline shells out
// to before a real run starts, so a missing binary fails up front instead
// of mid-pipeline.
package tools

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-version"
)

// MinQemuImgVersion is the oldest qemu-img known to handle the qcow2
// options the pipeline uses.
const MinQemuImgVersion = "4.0.0"

// required lists the virt tool binaries every real build invokes.
var required = []string{"qemu-img", "virt-resize", "virt-customize", "virt-sparsify"}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(\.\d+)?)`)

// Check verifies that the required external tools are installed and that
// qemu-img meets the minimum version. The downloader is checked only when
// the base image is not already cached.
func Check(downloader string, needDownloader bool) error {
	bins := required
	if needDownloader {
		bins = append(append([]string{}, required...), downloader)
	}

	var missing []string
	for _, bin := range bins {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found in PATH: %s", strings.Join(missing, ", "))
	}

	out, err := exec.Command("qemu-img", "--version").Output()
	if err != nil {
		return fmt.Errorf("failed to query qemu-img version: %w", err)
	}
	return checkQemuImgVersion(string(out))
}

// checkQemuImgVersion parses `qemu-img --version` output and enforces the
// minimum version. Unparseable output is logged and accepted.
func checkQemuImgVersion(output string) error {
	match := versionPattern.FindString(output)
	if match == "" {
		log.Warnf("Could not parse qemu-img version from %q", strings.TrimSpace(output))
		return nil
	}

	got, err := version.NewVersion(match)
	if err != nil {
		log.Warnf("Could not parse qemu-img version %q: %v", match, err)
		return nil
	}

	min := version.Must(version.NewVersion(MinQemuImgVersion))
	if got.LessThan(min) {
		return fmt.Errorf("qemu-img %s is too old, need at least %s", got, min)
	}

	log.Debugf("qemu-img version %s ok", got)
	return nil
}
