// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package masseur

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/jira-export-masseur/lib/exportzip"
	"github.com/bureau-foundation/jira-export-masseur/lib/prescription"
	"github.com/bureau-foundation/jira-export-masseur/lib/rewrite"
)

// stage tracks the pipeline position. Transitions are strictly linear;
// debug mode skips stagePacked.
type stage int

const (
	stageCreated stage = iota
	stageUnpacked
	stageConfigRewritten
	stageEntitiesRewritten
	stagePacked
	stageClosed
)

// Options configures a Masseur.
type Options struct {
	// Debug retains the workspace and writes rewritten documents as
	// *.proc.xml next to the originals instead of packing a new
	// archive. Used to diff the rewrite results.
	Debug bool

	// Logger receives stage progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Masseur rewrites usernames in one JIRA project export. Each instance
// owns one workspace and processes one archive; it is not safe for
// concurrent use.
type Masseur struct {
	rules     prescription.Ruleset
	debug     bool
	logger    *slog.Logger
	workspace string
	stage     stage
}

// New creates a Masseur with a fresh temporary workspace. The caller
// must Close it to release the workspace.
func New(rules prescription.Ruleset, opts Options) (*Masseur, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workspace, err := os.MkdirTemp("", "jira-export-masseur-")
	if err != nil {
		return nil, fmt.Errorf("masseur: creating workspace: %w", err)
	}

	return &Masseur{
		rules:     rules,
		debug:     opts.Debug,
		logger:    logger,
		workspace: workspace,
	}, nil
}

// Workspace returns the workspace directory. In debug mode it survives
// Close and holds the *.proc.xml files for inspection.
func (m *Masseur) Workspace() string {
	return m.workspace
}

// Massage runs the full pipeline on one export archive: unpack, rewrite
// config.xml, rewrite entities.xml, pack. The first failure aborts the
// remaining stages; the input archive is left untouched on every path.
// A Masseur processes a single archive, so Massage can be called only
// once.
func (m *Masseur) Massage(exportZipPath string) error {
	if m.stage != stageCreated {
		return fmt.Errorf("masseur: already used for a previous archive")
	}

	if err := exportzip.Unpack(exportZipPath, m.workspace); err != nil {
		return fmt.Errorf("unpacking %s: %w", exportZipPath, err)
	}
	m.stage = stageUnpacked
	m.logger.Info("unpacked export archive", "archive", exportZipPath, "workspace", m.workspace)

	configPath := filepath.Join(m.workspace, exportzip.ConfigXML)
	if err := m.rewriteFile(configPath, rewrite.Config); err != nil {
		return fmt.Errorf("rewriting %s: %w", exportzip.ConfigXML, err)
	}
	m.stage = stageConfigRewritten

	entitiesPath := filepath.Join(m.workspace, exportzip.DataDir, exportzip.EntitiesXML)
	if err := m.rewriteFile(entitiesPath, rewrite.Entities); err != nil {
		return fmt.Errorf("rewriting %s: %w", exportzip.EntitiesXML, err)
	}
	m.stage = stageEntitiesRewritten

	if m.debug {
		m.logger.Info("debug mode: skipping pack", "workspace", m.workspace)
		return nil
	}

	outPath, err := exportzip.Pack(m.workspace, exportZipPath)
	if err != nil {
		return fmt.Errorf("packing %s: %w", exportZipPath, err)
	}
	m.stage = stagePacked
	m.logger.Info("wrote rewritten export archive", "archive", outPath)
	return nil
}

// Close releases the workspace. In debug mode the workspace is retained
// for inspection and its location logged instead. Close is idempotent.
func (m *Masseur) Close() error {
	if m.stage == stageClosed {
		return nil
	}
	m.stage = stageClosed

	if m.debug {
		m.logger.Info("debug mode: retaining workspace", "workspace", m.workspace)
		return nil
	}
	if err := os.RemoveAll(m.workspace); err != nil {
		return fmt.Errorf("masseur: removing workspace: %w", err)
	}
	return nil
}

// rewriteFile reads one document, applies the transform with the
// configured rules, and writes the result to the document's output
// path (the document itself, or *.proc.xml in debug mode).
func (m *Masseur) rewriteFile(path string, transform func([]byte, prescription.Ruleset) ([]byte, error)) error {
	in, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := transform(in, m.rules)
	if err != nil {
		return err
	}

	outPath := m.outputPath(path)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}
	m.logger.Debug("rewrote document", "in", path, "out", outPath, "bytes", len(out))
	return nil
}

// outputPath leaves documents in place normally; in debug mode it
// redirects foo.xml to foo.proc.xml so originals stay available for
// diffing.
func (m *Masseur) outputPath(path string) string {
	if !m.debug {
		return path
	}
	return strings.TrimSuffix(path, ".xml") + ".proc.xml"
}
