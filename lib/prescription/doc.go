// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package prescription loads the rewrite prescription: the ordered list
// of old→new username transitions applied to a JIRA project export.
//
// The prescription is a YAML file (by convention prescription.yaml) with
// one required key:
//
//	user_name_map:
//	  alice: bob
//	  old.name: new.name
//
// Declaration order is significant: substitution rules are applied in
// the order they appear in the file, and a later rule may act on the
// output of an earlier one. Because Go maps do not preserve insertion
// order, the mapping is decoded into an ordered [Ruleset] rather than a
// map.
//
// The prescription is loaded once and is read-only for the remainder of
// the run.
package prescription
