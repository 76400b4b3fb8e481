// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/jira-export-masseur/lib/prescription"
)

func writeZipFile(t *testing.T, path string, members [][2]string) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	for _, member := range members {
		w, err := writer.Create(member[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(member[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Version(t *testing.T) {
	if err := run([]string{"--version"}); err != nil {
		t.Fatalf("run(--version) failed: %v", err)
	}
}

func TestRun_MissingArchiveArgument(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatal("run() without an archive path should fail")
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	if err := run([]string{"--frobnicate"}); err == nil {
		t.Fatal("run() with an unknown flag should fail")
	}
}

func TestRun_MissingPrescription(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{
		"--config", filepath.Join(dir, "nonexistent.yaml"),
		filepath.Join(dir, "export.zip"),
	})
	if !errors.Is(err, prescription.ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	prescriptionPath := filepath.Join(dir, "prescription.yaml")
	if err := os.WriteFile(prescriptionPath, []byte("user_name_map:\n  alice: bob\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	nestedPath := filepath.Join(dir, "data.zip")
	writeZipFile(t, nestedPath, [][2]string{
		{"activeobjects.xml", "<activeobjects/>"},
		{"entities.xml", `<entity-engine-xml><Action user="alice"/></entity-engine-xml>`},
	})
	nested, err := os.ReadFile(nestedPath)
	if err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(dir, "export.zip")
	writeZipFile(t, archive, [][2]string{
		{"config.xml", "<project><username>alice</username></project>"},
		{"data/data.zip", string(nested)},
	})

	if err := run([]string{"-c", prescriptionPath, archive}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	outPath := filepath.Join(dir, "export.fixed_users.zip")
	reader, err := zip.OpenReader(outPath)
	if err != nil {
		t.Fatalf("expected output archive: %v", err)
	}
	defer reader.Close()

	var sawConfig bool
	for _, member := range reader.File {
		if member.Name != "config.xml" {
			continue
		}
		sawConfig = true
		src, err := member.Open()
		if err != nil {
			t.Fatal(err)
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "<username>bob</username>") {
			t.Errorf("config.xml not rewritten: %s", content)
		}
	}
	if !sawConfig {
		t.Error("output archive is missing config.xml")
	}
}
