// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package exportzip unpacks and repacks JIRA Project Configurator
// export archives.
//
// The layout contract is exact: the outer zip holds config.xml at the
// top level and a nested data/data.zip; the nested zip holds
// activeobjects.xml and entities.xml. Any deviation is a format error —
// there is no attempt to guess at other layouts.
//
// Unpacking extracts both archives into a caller-owned workspace
// directory. Packing rebuilds the nested archive from the processed
// files and zips the whole workspace into a new archive named
// <basename>.fixed_users.zip next to the input, which is never
// modified. Neither direction attempts cleanup or rollback on failure;
// the caller discards the workspace instead.
package exportzip
