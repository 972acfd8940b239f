package manifest

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/reanahub/reana-client/internal/reanaerr"
	"github.com/reanahub/reana-client/internal/schema"
	"github.com/reanahub/reana-client/schemas"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
)

// DefaultManifestPath is the conventional manifest location in a project root.
const DefaultManifestPath = ".reana.yaml"

// Validator loads a manifest from ManifestPath and validates it against the
// schema at SchemaPath.
type Validator struct {
	ManifestPath string
	SchemaPath   string

	// Fs is the filesystem the manifest is read from. Defaults to the OS.
	Fs afero.Fs
	// SchemaFs is the filesystem the schema is read from. Defaults to Fs.
	SchemaFs afero.Fs

	Logger zerolog.Logger
}

// New returns a Validator reading both files from the OS filesystem.
func New(manifestPath, schemaPath string, logger zerolog.Logger) *Validator {
	return &Validator{
		ManifestPath: manifestPath,
		SchemaPath:   schemaPath,
		Fs:           afero.NewOsFs(),
		Logger:       logger,
	}
}

// NewWithEmbeddedSchema returns a Validator that reads the manifest from the
// OS filesystem and the schema shipped inside the binary.
func NewWithEmbeddedSchema(manifestPath string, logger zerolog.Logger) *Validator {
	v := New(manifestPath, schemas.AnalysisSchema, logger)
	v.SchemaFs = afero.FromIOFS{FS: schemas.FS}
	return v
}

// Load reads, parses, and validates the manifest. The parsed manifest is
// returned unchanged, and only if it is valid. Each failure is logged once
// where it is detected and returned as a *reanaerr.Error.
func (v *Validator) Load() (Manifest, error) {
	data, err := afero.ReadFile(v.fs(), v.ManifestPath)
	if err != nil {
		rerr := reanaerr.NewIO("read manifest", v.ManifestPath, err)
		v.Logger.Info().Str("path", v.ManifestPath).
			Msgf("Something went wrong when reading %s: %s", filepath.Base(v.ManifestPath), rerr.Reason())
		return nil, rerr
	}

	raw, err := parse(data)
	if err != nil {
		v.Logger.Info().Str("path", v.ManifestPath).Err(err).Msg("Manifest is not valid YAML")
		return nil, reanaerr.NewParse("parse manifest", v.ManifestPath, err)
	}

	// The schema decides on the raw document; only a validated mapping is
	// converted to a Manifest.
	if err := v.validate(raw); err != nil {
		return nil, err
	}

	m, ok := raw.(map[string]any)
	if !ok {
		rerr := reanaerr.NewSchemaValidation("validate manifest", v.ManifestPath,
			[]reanaerr.Issue{{Keyword: "type", Message: "manifest must be a mapping"}}, nil)
		v.Logger.Info().Str("path", v.ManifestPath).
			Msgf("Invalid `%s` specification: %s", filepath.Base(v.ManifestPath), rerr.Reason())
		return nil, rerr
	}
	return Manifest(m), nil
}

// Validate checks an already parsed manifest against the schema.
func (v *Validator) Validate(m Manifest) error {
	if m == nil {
		return v.validate(nil)
	}
	return v.validate(map[string]any(m))
}

func (v *Validator) validate(inst any) error {
	data, err := afero.ReadFile(v.schemaFs(), v.SchemaPath)
	if err != nil {
		rerr := reanaerr.NewIO("read manifest schema", v.SchemaPath, err)
		v.Logger.Info().Str("path", v.SchemaPath).
			Msgf("Something went wrong when reading %s: %s", v.SchemaPath, rerr.Reason())
		return rerr
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		v.Logger.Info().Str("path", v.SchemaPath).Err(err).Msg("Manifest schema is not valid JSON")
		return reanaerr.NewParse("parse manifest schema", v.SchemaPath, err)
	}

	s, err := schema.CompileValue(filepath.Base(v.SchemaPath), doc)
	if err != nil {
		v.Logger.Info().Str("path", v.SchemaPath).Err(err).Msg("Manifest schema does not compile")
		return fmt.Errorf("loading manifest schema %s: %w", v.SchemaPath, err)
	}

	// An empty file decodes to nil and is validated as JSON null.
	issues, err := schema.Validate(s, inst)
	if err != nil {
		v.Logger.Info().Str("path", v.ManifestPath).Err(err).Msg("Cannot validate manifest")
		return reanaerr.NewSchemaValidation("validate manifest", v.ManifestPath, nil, err)
	}
	if len(issues) > 0 {
		rerr := reanaerr.NewSchemaValidation("validate manifest", v.ManifestPath, issues, nil)
		v.Logger.Info().Str("path", v.ManifestPath).
			Msgf("Invalid `%s` specification: %s", filepath.Base(v.ManifestPath), rerr.Reason())
		return rerr
	}
	return nil
}

func (v *Validator) fs() afero.Fs {
	if v.Fs == nil {
		return afero.NewOsFs()
	}
	return v.Fs
}

func (v *Validator) schemaFs() afero.Fs {
	if v.SchemaFs == nil {
		return v.fs()
	}
	return v.SchemaFs
}
