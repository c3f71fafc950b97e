package fs

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aretw0/quire/pkg/core"
)

//go:embed author.schema.json
var authorSchemaJSON []byte

const authorSchemaURL = "author.schema.json"

var (
	authorSchemaOnce sync.Once
	authorSchema     *jsonschema.Schema
	authorSchemaErr  error
)

func compiledAuthorSchema() (*jsonschema.Schema, error) {
	authorSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(authorSchemaURL, bytes.NewReader(authorSchemaJSON)); err != nil {
			authorSchemaErr = err
			return
		}
		authorSchema, authorSchemaErr = compiler.Compile(authorSchemaURL)
	})
	return authorSchema, authorSchemaErr
}

// AuthorStore implements core.AuthorRegistry as one JSON file per author:
//
//	{AuthorsDir}/{handle}.json  ->  {"name": "...", ...metadata}
type AuthorStore struct {
	repo *Repository
}

func newAuthorStore(repo *Repository) *AuthorStore {
	return &AuthorStore{repo: repo}
}

func (s *AuthorStore) dir() string {
	return filepath.Join(s.repo.Path, s.repo.config.AuthorsDir)
}

func (s *AuthorStore) relPath(handle string) string {
	return filepath.Join(s.repo.config.AuthorsDir, handle+".json")
}

// Register writes a new author file and commits it. Existing files are never overwritten.
func (s *AuthorStore) Register(ctx context.Context, a core.Author) error {
	if s.repo.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := a.Validate(); err != nil {
		return err
	}

	rel := s.relPath(a.Handle)
	fullPath := filepath.Join(s.repo.Path, rel)
	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("%w: %s", core.ErrAuthorExists, a.Handle)
	}

	payload := make(map[string]any, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		payload[k] = v
	}
	payload["name"] = a.Name

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode author: %w", err)
	}
	if err := validateAuthorJSON(data); err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrInvalidAuthor, a.Handle, err)
	}

	if err := os.MkdirAll(s.dir(), 0755); err != nil {
		return fmt.Errorf("failed to create authors directory: %w", err)
	}
	if err := writeFileAtomic(fullPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write author: %w", err)
	}

	return s.repo.commit(ctx, "register "+a.Handle, rel)
}

// Lookup reads a single author. A missing file yields core.ErrAuthorNotFound.
func (s *AuthorStore) Lookup(ctx context.Context, handle string) (core.Author, error) {
	if err := core.ValidateHandle(handle); err != nil {
		return core.Author{}, fmt.Errorf("%w: %s", core.ErrAuthorNotFound, handle)
	}

	data, err := os.ReadFile(filepath.Join(s.repo.Path, s.relPath(handle)))
	if err != nil {
		if errIsNotExist(err) {
			return core.Author{}, fmt.Errorf("%w: %s", core.ErrAuthorNotFound, handle)
		}
		return core.Author{}, err
	}
	return decodeAuthor(handle, data)
}

// List returns all valid authors sorted by handle. Invalid files are logged and skipped.
func (s *AuthorStore) List(ctx context.Context) ([]core.Author, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if errIsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var authors []core.Author
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		handle := strings.TrimSuffix(e.Name(), ".json")
		if err := core.ValidateHandle(handle); err != nil {
			s.repo.config.Logger.Warn("skipping author file with invalid handle", "file", e.Name())
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir(), e.Name()))
		if err != nil {
			return nil, err
		}
		a, err := decodeAuthor(handle, data)
		if err != nil {
			s.repo.config.Logger.Warn("skipping invalid author", "handle", handle, "error", err)
			continue
		}
		authors = append(authors, a)
	}

	sort.Slice(authors, func(i, j int) bool { return authors[i].Handle < authors[j].Handle })
	return authors, nil
}

func decodeAuthor(handle string, data []byte) (core.Author, error) {
	if err := validateAuthorJSON(data); err != nil {
		return core.Author{}, fmt.Errorf("%w: %s: %v", core.ErrInvalidAuthor, handle, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return core.Author{}, fmt.Errorf("%w: %s: %v", core.ErrInvalidAuthor, handle, err)
	}

	name, _ := payload["name"].(string)
	delete(payload, "name")

	a := core.Author{Handle: handle, Name: name}
	if len(payload) > 0 {
		a.Metadata = core.Metadata(payload)
	}
	return a, nil
}

func validateAuthorJSON(data []byte) error {
	schema, err := compiledAuthorSchema()
	if err != nil {
		return fmt.Errorf("author schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return describeValidation(err)
	}
	return nil
}

// describeValidation flattens nested schema errors into one line.
func describeValidation(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			issues = append(issues, loc+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return fmt.Errorf("%s", strings.Join(issues, "; "))
}

var _ core.AuthorRegistry = (*AuthorStore)(nil)
