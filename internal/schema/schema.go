package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// baseURL is the resource root every schema file is registered under, so
// relative $refs between files in the same tree resolve without touching disk.
const baseURL = "https://schemas.reana.io/"

var printer = message.NewPrinter(language.English)

// Compile registers every *.json file in dir and compiles the schema called
// name. Name is a slash-separated path relative to dir with or without the
// ".json" suffix, e.g. "yadage/workflow-schema".
func Compile(dir fs.FS, name string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	err := fs.WalkDir(dir, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}
		data, err := fs.ReadFile(dir, p)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", p, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("unmarshaling schema %s: %w", p, err)
		}
		if err := c.AddResource(baseURL+p, doc); err != nil {
			return fmt.Errorf("adding schema resource %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	s, err := c.Compile(baseURL + name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return s, nil
}

// CompileValue compiles a single standalone schema that has already been
// decoded, e.g. with encoding/json. Relative $refs to other files are not
// resolvable from here.
func CompileValue(name string, doc any) (*jsonschema.Schema, error) {
	v, err := ToJSONValue(doc)
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(baseURL+name, v); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	s, err := c.Compile(baseURL + name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return s, nil
}

// Validate checks doc against s. A nil slice and nil error mean doc is valid.
// The error return is for failures that prevent validation from running;
// violations are reported as issues.
func Validate(s *jsonschema.Schema, doc any) ([]reanaerr.Issue, error) {
	inst, err := ToJSONValue(doc)
	if err != nil {
		return nil, err
	}

	err = s.Validate(inst)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(ve), nil
}

// ToJSONValue converts a decoded YAML or JSON value into the representation
// the validator expects: string-keyed maps and json.Number for numbers.
func ToJSONValue(v any) (any, error) {
	data, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}
	return inst, nil
}

// normalizeYAML converts map[any]any, which YAML produces for mappings with
// non-string keys, into map[string]any so it can be marshaled to JSON.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
// For oneOf/anyOf schemas every branch is walked so the specific property
// errors are reported rather than just "oneOf failed".
func extractIssues(ve *jsonschema.ValidationError) []reanaerr.Issue {
	var issues []reanaerr.Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []reanaerr.Issue{{Message: ve.Error()}}
	}
	return deduplicateIssues(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]reanaerr.Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	p := ""
	if len(ve.InstanceLocation) > 0 {
		p = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	// Container errors without a leaf cause carry no useful detail.
	if keyword == "oneOf" || keyword == "anyOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	*issues = append(*issues, reanaerr.Issue{
		Path:    p,
		Keyword: keyword,
		Message: msg,
	})
}

func deduplicateIssues(issues []reanaerr.Issue) []reanaerr.Issue {
	seen := make(map[string]bool)
	var result []reanaerr.Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
