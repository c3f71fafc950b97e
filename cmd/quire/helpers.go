package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/quire/pkg/core"
)

// splitTags turns "go, Blog" into ["go", "Blog"]; normalization happens in core.
func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// readBody resolves the body from --body or --body-file ("-" reads stdin).
// bodySet reports whether --body was passed, so an empty --body is a real value.
// ok is false when neither was given.
func readBody(body string, bodySet bool, file string, stdin io.Reader) (string, bool, error) {
	switch {
	case bodySet && file != "":
		return "", false, fmt.Errorf("--body and --body-file are mutually exclusive")
	case bodySet:
		return body, true, nil
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}
	return "", false, nil
}

type postView struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	State   string   `json:"state"`
	Author  string   `json:"author,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func viewOf(p *core.Post) postView {
	return postView{
		Slug:    p.Slug(),
		Title:   p.Title(),
		Date:    p.Created().Format("2006-01-02"),
		State:   p.State().String(),
		Author:  p.Author(),
		Summary: p.Summary(),
		Tags:    p.Tags(),
	}
}

func printPosts(w io.Writer, posts []*core.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tSTATE\tDATE\tAUTHOR\tTITLE")
	for _, p := range posts {
		author := p.Author()
		if author == "" {
			author = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Slug(), p.State(), p.Created().Format("2006-01-02"), author, p.Title())
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
