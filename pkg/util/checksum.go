// SPDX-License-Identifier: Apache-2.0
package util

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// CalculateSHA256 calculates the SHA256 hash of a file
func CalculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// RecordSHA256 appends or replaces the entry for filePath in a SHA256SUMS
// file next to it, so cached base images carry a digest the user can
// verify against upstream.
func RecordSHA256(filePath string) error {
	digest, err := CalculateSHA256(filePath)
	if err != nil {
		return err
	}

	sumsPath := filepath.Join(filepath.Dir(filePath), "SHA256SUMS")
	name := filepath.Base(filePath)

	sums, err := ParseSHA256SUMSFile(sumsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		sums = make(map[string]string)
	}
	sums[name] = digest

	var b strings.Builder
	for file, hash := range sums {
		fmt.Fprintf(&b, "%s  %s\n", hash, file)
	}
	if err := os.WriteFile(sumsPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write checksums file: %w", err)
	}

	log.Debugf("Recorded sha256 of %s: %s", name, digest)
	return nil
}

// VerifySHA256File verifies a file against a SHA256SUMS file
func VerifySHA256File(filePath, checksumsPath string) error {
	log.Debugf("Verifying SHA256 checksum for %s", filePath)

	fileHash, err := CalculateSHA256(filePath)
	if err != nil {
		return fmt.Errorf("failed to calculate file hash: %w", err)
	}

	checksums, err := ParseSHA256SUMSFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("failed to read checksums file: %w", err)
	}

	filename := filepath.Base(filePath)

	expectedHash, found := checksums[filename]
	if !found {
		return fmt.Errorf("file %s not found in checksums", filename)
	}

	if !strings.EqualFold(fileHash, expectedHash) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", filename, expectedHash, fileHash)
	}

	log.Debugf("Checksum verified for %s", filename)
	return nil
}

// ParseSHA256SUMSFile parses a SHA256SUMS file and returns a map of filename -> hash
func ParseSHA256SUMSFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	checksums := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// SHA256SUMS format: "hash  filename" or "hash *filename"
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		hash := parts[0]
		filename := strings.TrimPrefix(parts[1], "*")

		checksums[filename] = hash
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksums file: %w", err)
	}

	return checksums, nil
}
