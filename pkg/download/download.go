// SPDX-License-Identifier: Apache-2.0
package download

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
)

// ProgressCallback is called periodically during download with current progress
// percent is a float between 0 and 1 representing completion percentage
type ProgressCallback func(percent float64)

// File downloads a file from URL to destination with optional progress
// callback. Used by the fetch command to pre-populate the base-image
// cache; the build pipeline itself shells out to the configured download
// command instead so dry runs can preview it.
func File(url, dest string, progressCallback ProgressCallback) error {
	log.Debugf("Downloading %s to %s", url, dest)

	client := &http.Client{}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	// Write to a temp name first so a partial download never looks like a
	// cache hit to a later run.
	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	totalSize := resp.ContentLength
	downloaded := int64(0)

	if progressCallback != nil && totalSize > 0 {
		buf := make([]byte, 32*1024) // 32KB buffer
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				downloaded += int64(n)
				if _, writeErr := out.Write(buf[:n]); writeErr != nil {
					os.Remove(tmp)
					return fmt.Errorf("failed to write: %w", writeErr)
				}

				percent := float64(downloaded) / float64(totalSize)
				progressCallback(percent)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				os.Remove(tmp)
				return fmt.Errorf("failed to read: %w", err)
			}
		}
	} else {
		if _, err := io.Copy(out, resp.Body); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("failed to save: %w", err)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	log.Debugf("Download complete: %s", dest)
	return nil
}
