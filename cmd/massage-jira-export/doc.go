// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Massage-jira-export rewrites usernames in a JIRA Project Configurator
// export archive. It reads an ordered old→new username mapping from a
// prescription YAML file, rewrites config.xml and entities.xml inside
// the export, and writes a new <basename>.fixed_users.zip next to the
// input, which is never modified. With --debug the rewritten documents
// are left in a retained workspace as *.proc.xml for diffing and no
// archive is produced.
package main
