// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package exportzip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Member names of the export archive layout contract.
const (
	// ConfigXML is the project configuration document, at the top
	// level of the outer archive.
	ConfigXML = "config.xml"

	// DataDir is the outer-archive directory holding the nested
	// data archive.
	DataDir = "data"

	// DataZip is the nested data archive, relative to the outer
	// archive root.
	DataZip = "data/data.zip"

	// ActiveObjectsXML and EntitiesXML are the members of the nested
	// data archive.
	ActiveObjectsXML = "activeobjects.xml"
	EntitiesXML      = "entities.xml"
)

// OutputSuffix replaces the .zip extension of the input archive to form
// the output archive name.
const OutputSuffix = ".fixed_users.zip"

var (
	// ErrFormat reports a corrupt archive or a layout that deviates
	// from the export contract.
	ErrFormat = errors.New("exportzip: unexpected export archive layout")

	// ErrWrite reports an I/O failure while writing an archive.
	ErrWrite = errors.New("exportzip: cannot write archive")
)

// Unpack extracts the outer export archive into the workspace and the
// nested data archive into the workspace's data directory. All four
// contract members must be present afterwards; a missing member or an
// unreadable container wraps [ErrFormat]. No partial-extraction cleanup
// is attempted — on error the workspace is unusable and must be
// discarded by the caller.
func Unpack(archivePath, workspace string) error {
	if err := extract(archivePath, workspace); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFormat, archivePath, err)
	}
	for _, member := range []string{ConfigXML, DataZip} {
		if _, err := os.Stat(filepath.Join(workspace, filepath.FromSlash(member))); err != nil {
			return fmt.Errorf("%w: %s: missing %s", ErrFormat, archivePath, member)
		}
	}

	dataZipPath := filepath.Join(workspace, filepath.FromSlash(DataZip))
	if err := extract(dataZipPath, filepath.Join(workspace, DataDir)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFormat, dataZipPath, err)
	}
	for _, member := range []string{ActiveObjectsXML, EntitiesXML} {
		if _, err := os.Stat(filepath.Join(workspace, DataDir, member)); err != nil {
			return fmt.Errorf("%w: %s: missing %s/%s", ErrFormat, archivePath, DataDir, member)
		}
	}
	return nil
}

// Pack rebuilds the nested data archive from the processed
// activeobjects.xml and entities.xml, removes the now-redundant
// standalone copies, and zips the workspace tree into a new outer
// archive next to the input. Returns the output archive path. I/O
// failures wrap [ErrWrite]; partially written archives are not rolled
// back.
func Pack(workspace, exportZipPath string) (string, error) {
	dataDir := filepath.Join(workspace, DataDir)
	members := []struct{ name, path string }{
		{ActiveObjectsXML, filepath.Join(dataDir, ActiveObjectsXML)},
		{EntitiesXML, filepath.Join(dataDir, EntitiesXML)},
	}

	dataZipPath := filepath.Join(workspace, filepath.FromSlash(DataZip))
	if err := writeZip(dataZipPath, members); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, dataZipPath, err)
	}
	for _, member := range members {
		if err := os.Remove(member.path); err != nil {
			return "", fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	outPath := OutputPath(exportZipPath)
	if err := zipTree(workspace, outPath); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWrite, outPath, err)
	}
	return outPath, nil
}

// OutputPath derives the output archive name from the input name:
// project-export.zip becomes project-export.fixed_users.zip. The output
// lands next to the input, so concurrent runs against the same input
// would collide on it; runs are single-invocation by design.
func OutputPath(exportZipPath string) string {
	return strings.TrimSuffix(exportZipPath, ".zip") + OutputSuffix
}

// extract unpacks every member of a zip archive into dest.
func extract(zipPath, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, member := range reader.File {
		target, err := memberPath(dest, member.Name)
		if err != nil {
			return err
		}
		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(member, target); err != nil {
			return fmt.Errorf("extracting %s: %w", member.Name, err)
		}
	}
	return nil
}

func extractFile(member *zip.File, target string) error {
	src, err := member.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// memberPath resolves a zip member name inside dest, rejecting names
// that would escape it (absolute paths, .. traversal).
func memberPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != filepath.Clean(dest) && !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("member %q escapes extraction directory", name)
	}
	return target, nil
}

// writeZip creates a zip archive with the given members, in order.
func writeZip(zipPath string, members []struct{ name, path string }) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	writer := zip.NewWriter(out)

	for _, member := range members {
		w, err := writer.Create(member.name)
		if err != nil {
			out.Close()
			return err
		}
		src, err := os.Open(member.path)
		if err != nil {
			out.Close()
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			out.Close()
			return err
		}
	}

	if err := writer.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipTree zips the contents of root (not root itself) into zipPath,
// preserving relative paths.
func zipTree(root, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	writer := zip.NewWriter(out)

	err = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		w, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		return err
	})
	if err != nil {
		out.Close()
		return err
	}

	if err := writer.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
