// Sociable - Minimal Social Networking Service
// Copyright 2026 Sociable Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sociable-app/sociable

package sanitize

import (
	"strings"
	"testing"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello there", "hello there"},
		{"simple markup", "<b>hello</b>", "hello"},
		{"script element", "<script>alert('x')</script>hi", "hi"},
		{"markup only", "<img src=x onerror=alert(1)>", ""},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderMarkdown_BasicFormatting(t *testing.T) {
	got, err := RenderMarkdown("Hello **world** and *friends*")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	for _, want := range []string{"<p>", "<strong>world</strong>", "<em>friends</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}

func TestRenderMarkdown_Lists(t *testing.T) {
	got, err := RenderMarkdown("- one\n- two\n")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if !strings.Contains(got, "<ul>") || !strings.Contains(got, "<li>one</li>") {
		t.Errorf("expected list markup, got %q", got)
	}
}

func TestRenderMarkdown_StripsDisallowedElements(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		forbidden []string
	}{
		{"headings demoted", "# Title", []string{"<h1>"}},
		{"links stripped", "[click](https://example.com)", []string{"<a", "href"}},
		{"images stripped", "![alt](https://example.com/x.png)", []string{"<img", "src"}},
		{"raw script dropped", "<script>alert(1)</script>", []string{"<script>", "alert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMarkdown(tt.input)
			if err != nil {
				t.Fatalf("RenderMarkdown failed: %v", err)
			}
			for _, f := range tt.forbidden {
				if strings.Contains(got, f) {
					t.Errorf("output should not contain %q, got %q", f, got)
				}
			}
		})
	}
}

func TestRenderMarkdown_KeepsTextOfStrippedElements(t *testing.T) {
	got, err := RenderMarkdown("[click here](https://example.com)")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if !strings.Contains(got, "click here") {
		t.Errorf("link text should survive stripping, got %q", got)
	}
}
