// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rewrite

// The name tables below are the schema contract with the JIRA Project
// Configurator export format. They are data, not code: traversal logic
// never hard-codes a name, so the tables can be extended (new JIRA
// versions add attributes) without touching the engine.

// ConfigUserElements lists the config.xml element names whose text
// content is a bare username.
var ConfigUserElements = []string{
	"administratorUser",
	"author",
	"lead",
	"memberUser",
	"owner",
	"username",
}

// IdentityAttrs lists the entities.xml attribute names whose values are
// username references: either exactly a username, or free text with
// usernames embedded as space-delimited tokens.
var IdentityAttrs = []string{
	"author",
	"authorKey",
	"caller",
	"creator",
	"deltaFrom",
	"deltaTo",
	"entityId",
	"lead",
	"lowerChildName",
	"lowerUserName",
	"newvalue",
	"objectName",
	"oldvalue",
	"owner",
	"roletypeparameter",
	"sourceName",
	"updateauthor",
	"user",
	"username",
}

// FreeTextAttrs lists the entities.xml attribute names carrying free
// text (comment bodies, descriptions, change summaries). These get
// space-delimited username token rewriting, and their literal single
// quotes are protected so they survive re-serialization as &apos;.
// author and deltaTo also appear in IdentityAttrs and are processed by
// both passes.
var FreeTextAttrs = []string{
	"author",
	"body",
	"data",
	"deltaTo",
	"description",
	"infoMessage",
	"name",
	"newstring",
	"oldstring",
	"searchField",
	"summary",
	"title",
}
