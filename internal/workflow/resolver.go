package workflow

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

const refKey = "$ref"

// document is a parsed file or URL that references are resolved within.
type document struct {
	loc  string // absolute file path or URL; empty for an in-memory root
	base string // directory or URL that relative references resolve against
	root any
}

// resolver inlines JSON references. A resolver is used for a single load call;
// parsed documents are cached for its lifetime only.
type resolver struct {
	fs     afero.Fs
	client *http.Client
	log    zerolog.Logger
	docs   map[string]*document
}

func newResolver(opts Options) *resolver {
	return &resolver{
		fs:     opts.Fs,
		client: opts.HTTPClient,
		log:    opts.Logger,
		docs:   make(map[string]*document),
	}
}

// dereference returns a deep copy of doc.root with every reference replaced by
// its target. Maps are always returned as map[string]any.
func (r *resolver) dereference(doc *document) (any, error) {
	if doc.loc != "" {
		r.docs[doc.loc] = doc
	}
	return r.walk(doc.root, doc, nil)
}

func (r *resolver) walk(node any, doc *document, stack []string) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v[refKey].(string); ok {
			return r.follow(ref, doc, stack)
		}
		out := make(map[string]any, len(v))
		for k, child := range v {
			resolved, err := r.walk(child, doc, stack)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[fmt.Sprint(k)] = child
		}
		return r.walk(m, doc, stack)
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			resolved, err := r.walk(child, doc, stack)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// follow resolves a single reference found in doc and walks its target.
func (r *resolver) follow(ref string, doc *document, stack []string) (any, error) {
	target, fragment, _ := strings.Cut(ref, "#")

	targetDoc := doc
	if target != "" {
		loc, err := resolveLocation(doc.base, target)
		if err != nil {
			r.log.Info().Str("ref", ref).Err(err).Msg("Invalid reference")
			return nil, reanaerr.NewIO("resolve reference", ref, err)
		}
		targetDoc, err = r.load(loc)
		if err != nil {
			return nil, err
		}
	}

	key := targetDoc.loc + "#" + fragment
	for _, seen := range stack {
		if seen == key {
			err := fmt.Errorf("reference cycle through %s", ref)
			r.log.Info().Str("ref", ref).Err(err).Msg("Cannot resolve reference")
			return nil, reanaerr.NewIO("resolve reference", ref, err)
		}
	}

	node, err := pointer(targetDoc.root, fragment)
	if err != nil {
		r.log.Info().Str("ref", ref).Err(err).Msg("Cannot resolve reference")
		return nil, reanaerr.NewIO("resolve reference", ref, err)
	}
	return r.walk(node, targetDoc, append(stack, key))
}

// load reads and parses the document at loc, reusing a cached copy.
func (r *resolver) load(loc string) (*document, error) {
	if doc, ok := r.docs[loc]; ok {
		return doc, nil
	}

	var (
		data []byte
		err  error
		base string
	)
	if isURL(loc) {
		data, err = r.fetch(loc)
		base = loc
	} else {
		data, err = afero.ReadFile(r.fs, loc)
		base = filepath.Dir(loc)
	}
	if err != nil {
		r.log.Info().Str("path", loc).Err(err).Msg("Something went wrong when reading referenced document")
		return nil, reanaerr.NewIO("read referenced document", loc, err)
	}

	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		r.log.Info().Str("path", loc).Err(err).Msg("Invalid referenced document")
		return nil, reanaerr.NewParse("parse referenced document", loc, err)
	}

	doc := &document{loc: loc, base: base, root: root}
	r.docs[loc] = doc
	return doc, nil
}

func (r *resolver) fetch(rawURL string) ([]byte, error) {
	resp, err := r.client.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// resolveLocation joins a relative reference target onto base. Absolute paths
// and absolute URLs are returned unchanged.
func resolveLocation(base, target string) (string, error) {
	if isURL(target) {
		return target, nil
	}
	if isURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", err
		}
		t, err := url.Parse(target)
		if err != nil {
			return "", err
		}
		return b.ResolveReference(t).String(), nil
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	return filepath.Join(base, filepath.FromSlash(target)), nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// pointer evaluates an RFC 6901 JSON pointer fragment against root. An empty
// fragment selects the whole document.
func pointer(root any, fragment string) (any, error) {
	fragment, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, fmt.Errorf("invalid pointer %q: %w", fragment, err)
	}
	if fragment == "" {
		return root, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, fmt.Errorf("invalid pointer %q: must start with /", fragment)
	}

	node := root
	for _, token := range strings.Split(fragment[1:], "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch v := node.(type) {
		case map[string]any:
			child, ok := v[token]
			if !ok {
				return nil, fmt.Errorf("pointer %q: key %q not found", fragment, token)
			}
			node = child
		case map[any]any:
			child, ok := v[token]
			if !ok {
				return nil, fmt.Errorf("pointer %q: key %q not found", fragment, token)
			}
			node = child
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(v) {
				return nil, fmt.Errorf("pointer %q: index %q out of range", fragment, token)
			}
			node = v[i]
		default:
			return nil, fmt.Errorf("pointer %q: cannot descend into %T", fragment, node)
		}
	}
	return node, nil
}
