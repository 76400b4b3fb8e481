// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prescription

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePrescription(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prescription.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing prescription: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writePrescription(t, `
user_name_map:
  alice: bob
  charlie.old: charlie.new
  dave: dave
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := Ruleset{
		{Old: "alice", New: "bob"},
		{Old: "charlie.old", New: "charlie.new"},
		{Old: "dave", New: "dave"},
	}
	if len(p.UserNameMap) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(p.UserNameMap))
	}
	for i, rule := range want {
		if p.UserNameMap[i] != rule {
			t.Errorf("rule %d: expected %+v, got %+v", i, rule, p.UserNameMap[i])
		}
	}
}

func TestLoad_PreservesDeclarationOrder(t *testing.T) {
	// Keys chosen so that sorted order differs from declaration order.
	path := writePrescription(t, `
user_name_map:
  zoe: a
  mike: b
  anna: c
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	order := []string{"zoe", "mike", "anna"}
	for i, old := range order {
		if p.UserNameMap[i].Old != old {
			t.Errorf("rule %d: expected old=%q, got %q", i, old, p.UserNameMap[i].Old)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoad_MissingUserNameMap(t *testing.T) {
	path := writePrescription(t, "something_else: true\n")

	_, err := Load(path)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoad_DuplicateOldUsername(t *testing.T) {
	path := writePrescription(t, `
user_name_map:
  alice: bob
  alice: carol
`)

	_, err := Load(path)
	if !errors.Is(err, ErrDuplicateRule) {
		t.Fatalf("expected ErrDuplicateRule, got %v", err)
	}
	if !errors.Is(err, ErrLoad) {
		t.Errorf("duplicate rule error should also match ErrLoad, got %v", err)
	}
}

func TestLoad_EmptyOldUsername(t *testing.T) {
	path := writePrescription(t, `
user_name_map:
  "": bob
`)

	_, err := Load(path)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoad_UserNameMapNotAMapping(t *testing.T) {
	path := writePrescription(t, `
user_name_map:
  - alice
  - bob
`)

	_, err := Load(path)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writePrescription(t, "user_name_map: [unclosed\n")

	_, err := Load(path)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestRulesetLookup(t *testing.T) {
	rules := Ruleset{{Old: "alice", New: "bob"}}

	if replacement, ok := rules.Lookup("alice"); !ok || replacement != "bob" {
		t.Errorf(`Lookup("alice") = %q, %v; expected "bob", true`, replacement, ok)
	}
	if _, ok := rules.Lookup("bob"); ok {
		t.Error(`Lookup("bob") should not match`)
	}
	if _, ok := rules.Lookup(""); ok {
		t.Error(`Lookup("") should not match`)
	}
}
