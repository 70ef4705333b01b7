package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaUserCreate     = "user_create"
	schemaSequenceCreate = "sequence_create"
	schemaSequenceEdit   = "sequence_edit"
	schemaDocumentCreate = "document_create"
	schemaNoteEdit       = "note_edit"
	schemaCommentCreate  = "comment_create"
	schemaNotification   = "notification"
)

// errBodyTooLarge and bodyError are surfaced as 413 and 400 respectively.
var errBodyTooLarge = errors.New("request body too large")

type bodyError struct {
	Details []string
}

func (e *bodyError) Error() string {
	if len(e.Details) == 0 {
		return "invalid json body"
	}
	return "invalid json body: " + strings.Join(e.Details, "; ")
}

// bodySchemas holds the compiled request schemas, keyed by file stem.
type bodySchemas struct {
	byName map[string]*santhosh.Schema
}

func compileBodySchemas() (*bodySchemas, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(entry.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", entry.Name(), err)
		}
		names = append(names, entry.Name())
	}

	out := &bodySchemas{byName: make(map[string]*santhosh.Schema, len(names))}
	for _, name := range names {
		compiled, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out.byName[strings.TrimSuffix(name, ".json")] = compiled
	}
	return out, nil
}

// decode reads the request body, checks it against the named schema and
// unmarshals it into dst.
func (s *bodySchemas) decode(w http.ResponseWriter, r *http.Request, name string, dst any) error {
	sch, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown body schema %q", name)
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return &bodyError{}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &bodyError{}
	}
	if err := sch.Validate(doc); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return &bodyError{Details: collectValidationErrors(ve)}
		}
		return &bodyError{Details: []string{err.Error()}}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &bodyError{}
	}
	return nil
}

func collectValidationErrors(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectValidationErrors(cause)...)
	}
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, loc+": "+ve.Message)
	}
	return msgs
}
