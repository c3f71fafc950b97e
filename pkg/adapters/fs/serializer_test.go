package fs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/core"
)

func TestParsePost(t *testing.T) {
	t.Run("Reads Known Keys And Keeps Extras", func(t *testing.T) {
		src := `---
title: Hello World
slug: ignored-in-favour-of-path
date: 2024-03-01T09:30:00Z
author: ana
draft: true
summary: First post
tags: [go, blog]
cover: hero.png
---
Body text.
`
		rec, err := parsePost([]byte(src), "hello-world")
		require.NoError(t, err)

		assert.Equal(t, "hello-world", rec.Slug)
		assert.Equal(t, "Hello World", rec.Title)
		assert.True(t, rec.Created.Equal(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
		assert.Equal(t, "ana", rec.Author)
		assert.True(t, rec.Draft)
		assert.Equal(t, "First post", rec.Summary)
		assert.Equal(t, []string{"go", "blog"}, rec.Tags)
		assert.Equal(t, "hero.png", rec.Extra["cover"])
		assert.Equal(t, "Body text.\n", rec.Body)
	})

	t.Run("Missing Draft Means Published", func(t *testing.T) {
		rec, err := parsePost([]byte("---\ntitle: Old\n---\nbody"), "old")
		require.NoError(t, err)
		assert.False(t, rec.Draft)
	})

	t.Run("Rejects Broken YAML", func(t *testing.T) {
		_, err := parsePost([]byte("---\ntitle: [unclosed\n---\n"), "x")
		assert.Error(t, err)
	})
}

func TestSerializePost(t *testing.T) {
	rec := core.PostRecord{
		Slug:    "hello-world",
		Title:   "Hello World",
		Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Author:  "ana",
		Draft:   true,
		Tags:    []string{"go"},
		Extra:   core.Metadata{"cover": "hero.png", "title": "shadowed"},
		Body:    "# Hi\n",
	}

	data, err := serializePost(rec)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "---\ntitle: Hello World\n"))
	assert.Contains(t, out, "draft: true\n")
	assert.Contains(t, out, "cover: hero.png\n")
	assert.NotContains(t, out, "shadowed")
	assert.True(t, strings.HasSuffix(out, "---\n# Hi\n"))

	back, err := parsePost(data, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, rec.Title, back.Title)
	assert.True(t, rec.Created.Equal(back.Created))
	assert.Equal(t, rec.Body, back.Body)
	assert.Equal(t, "hero.png", back.Extra["cover"])
}

func TestSerializePost_KeepsLeadingLineBreaks(t *testing.T) {
	for _, body := range []string{"\nleading newline", "\r\nCRLF lead", "\n\nTwo blank lines\n", ""} {
		rec := core.PostRecord{
			Slug:    "spacing",
			Title:   "Spacing",
			Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Body:    body,
		}

		data, err := serializePost(rec)
		require.NoError(t, err)

		back, err := parsePost(data, rec.Slug)
		require.NoError(t, err)
		assert.Equal(t, body, back.Body, "%q", body)
	}
}

func TestSlugFromPath(t *testing.T) {
	cases := []struct {
		path string
		slug string
		ok   bool
	}{
		{"hello.md", "hello", true},
		{"hello/index.md", "hello", true},
		{"_index.md", "", false},
		{"hello/other.md", "", false},
		{"a/b/index.md", "", false},
		{"Bad Name.md", "Bad Name", false},
	}
	for _, tc := range cases {
		slug, ok := slugFromPath(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		if tc.ok {
			assert.Equal(t, tc.slug, slug, tc.path)
		}
	}
}
