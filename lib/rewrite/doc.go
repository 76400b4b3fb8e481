// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rewrite implements the identity rewrite engine for JIRA
// project exports: pure transformations that replace old usernames with
// new usernames in the two XML document shapes a Project Configurator
// export contains.
//
// config.xml carries usernames as element text (<username>alice</username>);
// entities.xml carries them as attribute values, either as the whole
// value or as space-delimited tokens inside longer free-text values.
// The element and attribute names subject to rewriting are static schema
// tables in names.go.
//
// entities.xml needs byte-level care: literal form-feed and carriage-
// return characters (which an XML serializer would drop or escape) are
// mapped to private sentinel code points before parsing and restored
// after serialization, and single quotes in free-text attributes are
// protected so they re-serialize as &apos; rather than raw quotes. The
// round trip is collision-checked: input that already contains a
// sentinel code point is rejected instead of silently corrupted.
//
// Documents are parsed with CDATA sections preserved verbatim. External
// entity references are never resolved: the underlying parser has no
// external-entity mechanism, so untrusted export files cannot trigger
// network or file fetches.
package rewrite
