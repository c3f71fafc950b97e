// Package commits formats the change reasons recorded for every content write.
package commits

import (
	"strings"
)

// Conventional commit types used by the content workflow.
const (
	TypeFeat  = "feat"
	TypeFix   = "fix"
	TypeDocs  = "docs"
	TypeChore = "chore"
)

// Scopes for content changes.
const (
	ScopePosts   = "posts"
	ScopeAuthors = "authors"
	ScopeSite    = "site"
)

// Footer marks commits written by quire so CI can tell them from hand edits.
const Footer = "Managed-by: quire"

// Format builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Managed-by: quire
func Format(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = TypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(subject))

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)

	return sb.String()
}

// AppendFooter appends the footer to a free-form message if not present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}

	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}

	return msg + Footer
}
