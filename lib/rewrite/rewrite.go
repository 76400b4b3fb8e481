// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/bureau-foundation/jira-export-masseur/lib/prescription"
)

// ErrParse reports a malformed XML document.
var ErrParse = errors.New("rewrite: malformed XML document")

// xmlDeclaration is written as the first line of every rewritten
// document, replacing whatever declaration the input carried.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// newDocument returns an etree document configured for lossless round
// trips: CDATA sections are preserved verbatim, text and attribute
// values use canonical escaping (so unprotected apostrophes stay raw
// bytes), and entities are never resolved externally.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	return doc
}

// Config rewrites usernames in a config.xml document. For each element
// name in [ConfigUserElements], every matching element anywhere in the
// tree whose text exactly equals an old username has its text replaced
// with the new username. Attributes, ordering, and all other content
// are left as-is.
func Config(doc []byte, rules prescription.Ruleset) ([]byte, error) {
	tree := newDocument()
	if err := tree.ReadFromBytes(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	for _, name := range ConfigUserElements {
		for _, elem := range tree.FindElements("//" + name) {
			if replacement, ok := rules.Lookup(elem.Text()); ok {
				elem.SetText(replacement)
			}
		}
	}

	return serialize(tree)
}

// Entities rewrites usernames in an entities.xml document. The raw
// input is sentinel-encoded (form feed, carriage return) before parsing
// so those characters survive serialization; see the package comment.
//
// Two attribute passes run over the parsed tree. The identity pass
// rewrites every attribute named in [IdentityAttrs]: a value exactly
// equal to an old username is replaced wholesale, and otherwise every
// space-delimited occurrence of an old username is replaced in place.
// The free-text pass applies the same token rewriting to the attributes
// in [FreeTextAttrs] and additionally protects their single quotes so
// they serialize as &apos;.
//
// Rules apply in prescription declaration order. A later rule can act
// on the output of an earlier rule within the same attribute value;
// this cascade is an explicit policy (chained renames depend on it),
// not an accident of iteration order.
func Entities(doc []byte, rules prescription.Ruleset) ([]byte, error) {
	encoded, err := encodeSentinels(doc)
	if err != nil {
		return nil, err
	}

	tree := newDocument()
	if err := tree.ReadFromBytes(encoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	for _, name := range IdentityAttrs {
		for _, elem := range tree.FindElements("//*[@" + name + "]") {
			attr := elem.SelectAttr(name)
			attr.Value = rewriteIdentityValue(attr.Value, rules)
		}
	}
	for _, name := range FreeTextAttrs {
		// Attributes shared with IdentityAttrs already had their
		// tokens rewritten above; rewriting them again would apply
		// cascading rules twice.
		alreadyRewritten := identityAttrSet[name]
		for _, elem := range tree.FindElements("//*[@" + name + "]") {
			attr := elem.SelectAttr(name)
			if !alreadyRewritten {
				attr.Value = rewriteTokens(attr.Value, rules)
			}
			attr.Value = strings.ReplaceAll(attr.Value, "'", string(sentinelSingleQuote))
		}
	}

	out, err := serialize(tree)
	if err != nil {
		return nil, err
	}

	body := decodeSentinels(string(out))
	// Keep comments visually separated from the element that follows
	// them; the serializer runs them together.
	body = strings.ReplaceAll(body, "--><", "-->\n<")
	return []byte(body), nil
}

var identityAttrSet = func() map[string]bool {
	set := make(map[string]bool, len(IdentityAttrs))
	for _, name := range IdentityAttrs {
		set[name] = true
	}
	return set
}()

// rewriteIdentityValue applies the full identity rewrite to one
// attribute value: exact-match wholesale replacement, falling back to
// space-delimited token replacement.
func rewriteIdentityValue(value string, rules prescription.Ruleset) string {
	for _, rule := range rules {
		if value == rule.Old {
			value = rule.New
			continue
		}
		value = strings.ReplaceAll(value, " "+rule.Old+" ", " "+rule.New+" ")
	}
	return value
}

// rewriteTokens applies only space-delimited token replacement. Used
// for free-text attributes, where a value that happens to equal a
// username wholesale (a summary reading just "alice") is not an
// identity reference.
func rewriteTokens(value string, rules prescription.Ruleset) string {
	for _, rule := range rules {
		value = strings.ReplaceAll(value, " "+rule.Old+" ", " "+rule.New+" ")
	}
	return value
}

// serialize writes the tree with a fresh XML declaration line. Any
// declaration parsed from the input is dropped first, along with the
// formatting whitespace that trailed it, so the declaration is not
// emitted twice.
func serialize(tree *etree.Document) ([]byte, error) {
	stripDeclaration(tree)

	body, err := tree.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("rewrite: serializing document: %w", err)
	}
	return []byte(xmlDeclaration + body), nil
}

func stripDeclaration(tree *etree.Document) {
	children := append([]etree.Token(nil), tree.Child...)
	for i, child := range children {
		pi, ok := child.(*etree.ProcInst)
		if !ok || pi.Target != "xml" {
			continue
		}
		tree.RemoveChild(pi)
		if i+1 < len(children) {
			if cd, ok := children[i+1].(*etree.CharData); ok && strings.TrimSpace(cd.Data) == "" {
				tree.RemoveChild(cd)
			}
		}
		return
	}
}
