package workflow

import (
	"io/fs"
	"path/filepath"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/reanahub/reana-client/internal/schema"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Built-in dialect tags.
const (
	DialectYadage = "yadage"
	DialectSerial = "serial"
)

// Schema names, relative to the schema directory.
const (
	YadageSchema = "yadage/workflow-schema"
	SerialSchema = "serial/workflow-schema"
)

var (
	yadageLoader = &schemaLoader{dialect: DialectYadage, schemaName: YadageSchema}
	serialLoader = &schemaLoader{dialect: DialectSerial, schemaName: SerialSchema}
)

// schemaLoader reads a YAML or JSON workflow file and hands it to
// ResolveAndValidate with the dialect's schema.
type schemaLoader struct {
	dialect    string
	schemaName string
}

func (l *schemaLoader) Load(path string, opts Options) (Document, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With().Str("dialect", l.dialect).Logger()

	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.TopLevel, path)
	}

	data, err := afero.ReadFile(opts.Fs, path)
	if err != nil {
		log.Info().Str("path", path).Err(err).Msg("Something went wrong when reading workflow specification")
		return nil, reanaerr.NewIO("read workflow spec", path, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Info().Str("path", path).Err(err).Msg("Invalid workflow specification")
		return nil, reanaerr.NewParse("parse workflow spec", path, err)
	}

	opts.Logger = log
	root := &document{loc: path, base: opts.TopLevel, root: raw}
	return resolveAndValidate(root, l.schemaName, opts.SchemaDir, opts)
}

// ValidateDocument dereferences and validates an in-memory specification
// against the dialect's schema.
func (l *schemaLoader) ValidateDocument(doc any, opts Options) (Document, error) {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With().Str("dialect", l.dialect).Logger()
	root := &document{base: opts.TopLevel, root: doc}
	return resolveAndValidate(root, l.schemaName, opts.SchemaDir, opts)
}

// ResolveAndValidate dereferences every $ref in doc, with relative references
// resolved against topLevel, then validates the result against schemaName
// compiled from schemaDir. It returns the fully inlined document.
func ResolveAndValidate(doc any, topLevel, schemaName string, schemaDir fs.FS, opts ...Option) (Document, error) {
	o := newOptions(append(opts, WithTopLevel(topLevel), WithSchemaDir(schemaDir)))
	root := &document{base: o.TopLevel, root: doc}
	return resolveAndValidate(root, schemaName, o.SchemaDir, o)
}

func resolveAndValidate(root *document, schemaName string, schemaDir fs.FS, opts Options) (Document, error) {
	log := opts.Logger
	target := root.loc
	if target == "" {
		target = schemaName
	}

	resolved, err := newResolver(opts).dereference(root)
	if err != nil {
		return nil, err
	}

	s, err := schema.Compile(schemaDir, schemaName)
	if err != nil {
		log.Info().Str("schema", schemaName).Err(err).Msg("Cannot load workflow schema")
		return nil, reanaerr.NewIO("load schema", schemaName, err)
	}

	issues, err := schema.Validate(s, resolved)
	if err != nil {
		log.Info().Str("path", target).Err(err).Msg("Cannot validate workflow specification")
		return nil, reanaerr.NewSchemaValidation("validate workflow spec", target, nil, err)
	}
	if len(issues) > 0 {
		verr := reanaerr.NewSchemaValidation("validate workflow spec", target, issues, nil)
		log.Info().Str("path", target).Str("schema", schemaName).Msgf("Invalid workflow specification: %s", verr.Reason())
		return nil, verr
	}

	// Built-in schemas require a top-level object; a custom schema dir may not.
	m, ok := resolved.(map[string]any)
	if !ok {
		verr := reanaerr.NewSchemaValidation("validate workflow spec", target,
			[]reanaerr.Issue{{Message: "workflow specification must be a mapping"}}, nil)
		log.Info().Str("path", target).Msg(verr.Reason())
		return nil, verr
	}
	return Document(m), nil
}
