// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package masseur orchestrates the rewrite of a JIRA project export:
// unpack the archive into a private workspace, rewrite usernames in
// config.xml and entities.xml, and pack the result into a new archive
// next to the input. The input archive is never modified.
//
// A [Masseur] owns one temporary workspace for its lifetime. Callers
// pair [New] with [Close] so the workspace is removed on every exit
// path, including mid-pipeline failures:
//
//	m, err := masseur.New(rules, masseur.Options{Logger: logger})
//	if err != nil { ... }
//	defer m.Close()
//	return m.Massage(archivePath)
//
// The pipeline is strictly linear with one branch: in debug mode the
// rewritten documents are written next to the originals as *.proc.xml,
// no output archive is produced, and Close retains the workspace so the
// results can be diffed against the originals.
package masseur
