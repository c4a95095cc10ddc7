// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package sanitize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	// strictPolicy removes all HTML, leaving text content only.
	strictPolicy = bluemonday.StrictPolicy()

	// postPolicy admits only the basic formatting elements posts may
	// carry after Markdown rendering. No attributes, no links, no images.
	postPolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "ul", "ol", "li", "strong", "em", "u")
		return p
	}()

	markdown = goldmark.New()
)

// StripTags removes all HTML markup from s and trims surrounding
// whitespace. Used on chat messages before broadcast: a message that is
// nothing but markup comes back empty.
func StripTags(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// RenderMarkdown converts a Markdown post body to HTML restricted to the
// basic formatting whitelist. Raw HTML in the source is dropped rather
// than escaped.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(postPolicy.Sanitize(buf.String())), nil
}
