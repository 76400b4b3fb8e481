// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prescription

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrLoad reports a missing or malformed prescription file.
	ErrLoad = errors.New("prescription: invalid prescription")

	// ErrDuplicateRule reports two rules sharing the same old username.
	ErrDuplicateRule = errors.New("prescription: duplicate old username")
)

// Rule is a single username transition.
type Rule struct {
	// Old is the username as it appears in the export. Never empty.
	Old string

	// New is the replacement username.
	New string
}

// Ruleset is an ordered list of username transitions. The order is the
// declaration order in the prescription file and is the order in which
// substitutions are applied: a later rule may rewrite the output of an
// earlier one within the same value. This cascading behavior is a
// documented policy, relied on by prescriptions that chain renames
// (a→b, b→c).
type Ruleset []Rule

// Prescription is the full parsed prescription file.
type Prescription struct {
	// UserNameMap holds the username transitions, in declaration order.
	UserNameMap Ruleset `yaml:"user_name_map"`
}

// Load reads and validates a prescription file. The user_name_map key
// is required; old usernames must be non-empty and unique. All failures
// wrap [ErrLoad].
func Load(path string) (*Prescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	var p Prescription
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	if p.UserNameMap == nil {
		return nil, fmt.Errorf("%w: %s: user_name_map is required", ErrLoad, path)
	}
	return &p, nil
}

// UnmarshalYAML decodes a YAML mapping into an ordered Ruleset. A plain
// map[string]string would lose declaration order, which determines the
// substitution application order.
func (r *Ruleset) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("user_name_map must be a mapping (line %d)", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	rules := make(Ruleset, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], value.Content[i+1]

		var oldName, newName string
		if err := keyNode.Decode(&oldName); err != nil {
			return fmt.Errorf("user_name_map key at line %d: %w", keyNode.Line, err)
		}
		if err := valueNode.Decode(&newName); err != nil {
			return fmt.Errorf("user_name_map value for %q at line %d: %w", oldName, valueNode.Line, err)
		}
		if oldName == "" {
			return fmt.Errorf("user_name_map has an empty old username (line %d)", keyNode.Line)
		}
		if seen[oldName] {
			return fmt.Errorf("%w: %q (line %d)", ErrDuplicateRule, oldName, keyNode.Line)
		}
		seen[oldName] = true
		rules = append(rules, Rule{Old: oldName, New: newName})
	}

	*r = rules
	return nil
}

// Lookup returns the replacement for an exact old username, if any.
func (r Ruleset) Lookup(old string) (string, bool) {
	for _, rule := range r {
		if rule.Old == old {
			return rule.New, true
		}
	}
	return "", false
}
