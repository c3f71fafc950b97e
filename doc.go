// Package quire is the composition root for the quire blog toolkit.
//
// It connects the publication lifecycle (pkg/core) with the filesystem and
// git adapters, using the hexagonal layout: the core knows nothing about
// files, the adapters know nothing about publication rules.
//
// A site is a directory of Markdown files with YAML frontmatter that a static
// site generator renders. quire owns the part before rendering: every post
// starts as a draft, only an explicit publish makes it public, and every
// change is committed so that a push hands the content to CI.
//
// Layout:
//
//	content/posts/{slug}.md          single-file post
//	content/posts/{slug}/index.md    post bundle
//	authors/{handle}.json            author record
//	.quire.yml                       site configuration
//
// Usage:
//
//	svc, err := quire.New("./blog", quire.WithAutoInit(true))
//	post, err := svc.CreatePost(ctx, "Hello World", core.WithAuthor("ana"))
//	_, err = svc.PublishPost(ctx, post.Slug())
package quire
