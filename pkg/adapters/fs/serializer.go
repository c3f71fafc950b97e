package fs

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/quire/pkg/core"
)

// frontMatter is the on-disk header of a post. Keys follow the static-site
// generator conventions (`date`, `draft`); anything else lands in Extra and
// is written back untouched.
type frontMatter struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug,omitempty"`
	Date    time.Time      `yaml:"date"`
	Author  string         `yaml:"author,omitempty"`
	Draft   bool           `yaml:"draft"`
	Summary string         `yaml:"summary,omitempty"`
	Tags    []string       `yaml:"tags,omitempty"`
	Extra   map[string]any `yaml:",inline"`
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// parsePost decodes a Markdown file with YAML frontmatter.
// The slug always comes from the file location, never from the header.
func parsePost(data []byte, slug string) (core.PostRecord, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, yamlFormat)
	if err != nil {
		return core.PostRecord{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	rec := core.PostRecord{
		Slug:    slug,
		Title:   fm.Title,
		Created: fm.Date,
		Author:  fm.Author,
		Draft:   fm.Draft,
		Summary: fm.Summary,
		Tags:    fm.Tags,
		Body:    string(body),
	}
	if len(fm.Extra) > 0 {
		rec.Extra = core.Metadata(fm.Extra)
	}
	return rec, nil
}

// serializePost encodes a post as Markdown with YAML frontmatter.
func serializePost(rec core.PostRecord) ([]byte, error) {
	fm := frontMatter{
		Title:   rec.Title,
		Slug:    rec.Slug,
		Date:    rec.Created,
		Author:  rec.Author,
		Draft:   rec.Draft,
		Summary: rec.Summary,
		Tags:    rec.Tags,
	}
	if len(rec.Extra) > 0 {
		fm.Extra = make(map[string]any, len(rec.Extra))
		for k, v := range rec.Extra {
			if isReservedKey(k) {
				continue
			}
			fm.Extra[k] = v
		}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(rec.Body)
	return buf.Bytes(), nil
}

func isReservedKey(k string) bool {
	switch k {
	case "title", "slug", "date", "author", "draft", "summary", "tags":
		return true
	}
	return false
}
