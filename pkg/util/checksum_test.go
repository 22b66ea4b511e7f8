// SPDX-License-Identifier: Apache-2.0
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCalculateSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("hello\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := CalculateSHA256(path)
	if err != nil {
		t.Fatalf("CalculateSHA256 failed: %v", err)
	}

	// sha256 of "hello\n"
	want := "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"
	if got != want {
		t.Errorf("Hash = %s, want %s", got, want)
	}
}

func TestRecordAndVerifySHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debian-13-genericcloud-amd64.qcow2")
	if err := os.WriteFile(path, []byte("image-bytes"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := RecordSHA256(path); err != nil {
		t.Fatalf("RecordSHA256 failed: %v", err)
	}

	sumsPath := filepath.Join(dir, "SHA256SUMS")
	if err := VerifySHA256File(path, sumsPath); err != nil {
		t.Errorf("VerifySHA256File failed: %v", err)
	}

	// Corrupt the file: verification must fail
	if err := os.WriteFile(path, []byte("tampered"), 0644); err != nil {
		t.Fatalf("Failed to overwrite file: %v", err)
	}
	if err := VerifySHA256File(path, sumsPath); err == nil {
		t.Error("Expected checksum mismatch, got nil")
	}
}

func TestRecordSHA256_ReplacesExistingEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := RecordSHA256(path); err != nil {
		t.Fatalf("RecordSHA256 failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("Failed to overwrite file: %v", err)
	}
	if err := RecordSHA256(path); err != nil {
		t.Fatalf("RecordSHA256 failed: %v", err)
	}

	sums, err := ParseSHA256SUMSFile(filepath.Join(dir, "SHA256SUMS"))
	if err != nil {
		t.Fatalf("ParseSHA256SUMSFile failed: %v", err)
	}
	if len(sums) != 1 {
		t.Errorf("Expected one entry, got %v", sums)
	}
	if err := VerifySHA256File(path, filepath.Join(dir, "SHA256SUMS")); err != nil {
		t.Errorf("Verification after re-record failed: %v", err)
	}
}
