package workflow

import (
	"fmt"
	"sort"

	"github.com/reanahub/reana-client/internal/reanaerr"
)

// Document is a dereferenced, validated workflow specification.
type Document map[string]any

// SpecLoader loads one specification dialect.
type SpecLoader interface {
	Load(path string, opts Options) (Document, error)
}

// DocumentValidator is implemented by loaders that can also validate a
// specification that is already in memory, such as one written inline in the
// analysis manifest.
type DocumentValidator interface {
	ValidateDocument(doc any, opts Options) (Document, error)
}

// LoaderFunc adapts a plain function to SpecLoader.
type LoaderFunc func(path string, opts Options) (Document, error)

// Load calls f.
func (f LoaderFunc) Load(path string, opts Options) (Document, error) {
	return f(path, opts)
}

// Entry associates a dialect tag with its loader.
type Entry struct {
	Dialect string
	Loader  SpecLoader
}

// Registry maps dialect tags to loaders. It is immutable once built and safe
// for concurrent use.
type Registry struct {
	loaders map[string]SpecLoader
}

// defaultRegistry holds the dialects built into the client.
var defaultRegistry = &Registry{loaders: map[string]SpecLoader{
	DialectYadage: yadageLoader,
	DialectSerial: serialLoader,
}}

// Default returns the registry of built-in dialects.
func Default() *Registry { return defaultRegistry }

// NewRegistry builds a registry from entries. Tags must be non-empty and unique.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{loaders: make(map[string]SpecLoader, len(entries))}
	if err := r.add(entries); err != nil {
		return nil, err
	}
	return r, nil
}

// With returns a new registry holding r's loaders plus entries. r itself is
// left untouched. Re-registering an existing tag is an error.
func (r *Registry) With(entries ...Entry) (*Registry, error) {
	next := &Registry{loaders: make(map[string]SpecLoader, len(r.loaders)+len(entries))}
	for tag, l := range r.loaders {
		next.loaders[tag] = l
	}
	if err := next.add(entries); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *Registry) add(entries []Entry) error {
	for _, e := range entries {
		if e.Dialect == "" {
			return fmt.Errorf("registering loader: empty dialect tag")
		}
		if e.Loader == nil {
			return fmt.Errorf("registering loader for %q: nil loader", e.Dialect)
		}
		if _, dup := r.loaders[e.Dialect]; dup {
			return fmt.Errorf("registering loader for %q: dialect already registered", e.Dialect)
		}
		r.loaders[e.Dialect] = e.Loader
	}
	return nil
}

// Lookup returns the loader registered for tag.
func (r *Registry) Lookup(tag string) (SpecLoader, bool) {
	l, ok := r.loaders[tag]
	return l, ok
}

// Dialects returns the registered tags in sorted order.
func (r *Registry) Dialects() []string {
	tags := make([]string, 0, len(r.loaders))
	for tag := range r.loaders {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Load validates and returns the workflow specification at path using the
// loader registered for tag. An unknown tag fails with an UnsupportedDialect
// error before any file is touched.
func (r *Registry) Load(tag, path string, opts ...Option) (Document, error) {
	o := newOptions(opts)
	loader, ok := r.loaders[tag]
	if !ok {
		err := reanaerr.NewUnsupportedDialect(tag)
		o.Logger.Info().Str("dialect", tag).Strs("supported", r.Dialects()).Msg("Unsupported workflow type")
		return nil, err
	}
	return loader.Load(path, o)
}

// Validate dereferences and validates an in-memory specification with the
// loader registered for tag. Relative references resolve against the
// TopLevel option. An unknown tag fails with an UnsupportedDialect error.
func (r *Registry) Validate(tag string, doc any, opts ...Option) (Document, error) {
	o := newOptions(opts)
	loader, ok := r.loaders[tag]
	if !ok {
		err := reanaerr.NewUnsupportedDialect(tag)
		o.Logger.Info().Str("dialect", tag).Strs("supported", r.Dialects()).Msg("Unsupported workflow type")
		return nil, err
	}
	dv, ok := loader.(DocumentValidator)
	if !ok {
		err := fmt.Errorf("workflow type %q does not support inline specifications", tag)
		o.Logger.Info().Str("dialect", tag).Err(err).Msg("Cannot validate inline workflow specification")
		return nil, err
	}
	return dv.ValidateDocument(doc, o)
}

// LoadWorkflowSpec loads path with the built-in loader for tag.
func LoadWorkflowSpec(tag, path string, opts ...Option) (Document, error) {
	return Default().Load(tag, path, opts...)
}
