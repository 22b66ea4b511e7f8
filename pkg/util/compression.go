// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ulikunitz/xz"
)

// CompressXZ compresses a file using xz compression
func CompressXZ(src, dst string) error {
	return CompressXZWithProgress(src, dst, nil)
}

// CompressXZWithProgress compresses a file with progress tracking
func CompressXZWithProgress(src, dst string, progressCallback func(float64)) error {
	log.Debugf("Compressing %s to %s", src, dst)

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}
	uncompressedSize := srcInfo.Size()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	xzWriter, err := xz.NewWriter(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	defer xzWriter.Close()

	var reader io.Reader = srcFile
	if progressCallback != nil {
		reader = &progressReader{
			reader:   srcFile,
			total:    uncompressedSize,
			read:     0,
			callback: progressCallback,
			lastPct:  -1.0,
		}
	}

	if _, err := io.Copy(xzWriter, reader); err != nil {
		return fmt.Errorf("failed to compress file: %w", err)
	}

	// Ensure all data is flushed
	if err := xzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush compressed data: %w", err)
	}

	log.Debugf("Successfully compressed %s to %s", src, dst)
	return nil
}

// progressReader wraps a reader to track bytes read
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback func(float64)
	lastPct  float64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	if pr.callback != nil && pr.total > 0 {
		pct := float64(pr.read) / float64(pr.total)
		if pct > 1.0 {
			pct = 1.0
		}
		// Report every 1% for smoother progress updates
		if pct-pr.lastPct >= 0.01 || pct >= 0.99 {
			pr.callback(pct)
			pr.lastPct = pct
		}
	}

	return n, err
}
