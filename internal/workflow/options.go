package workflow

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/reanahub/reana-client/schemas"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options carries the settings forwarded to a SpecLoader.
type Options struct {
	// TopLevel is the directory relative workflow paths and relative $refs in
	// the root document are resolved against. Defaults to the working directory.
	TopLevel string
	// Fs is the filesystem workflow files are read from.
	Fs afero.Fs
	// SchemaDir holds the dialect schemas. Defaults to the embedded schemas.
	SchemaDir fs.FS
	// HTTPClient fetches remote $refs.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Option configures Options.
type Option func(*Options)

// WithTopLevel sets the base directory for relative paths.
func WithTopLevel(dir string) Option {
	return func(o *Options) { o.TopLevel = dir }
}

// WithFs sets the filesystem workflow files are read from.
func WithFs(fsys afero.Fs) Option {
	return func(o *Options) { o.Fs = fsys }
}

// WithSchemaDir sets the directory dialect schemas are compiled from.
func WithSchemaDir(dir fs.FS) Option {
	return func(o *Options) { o.SchemaDir = dir }
}

// WithHTTPClient sets the client used for remote $refs.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func newOptions(opts []Option) Options {
	o := Options{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o.withDefaults()
}

// withDefaults fills unset fields. Loaders call it so an Options value built
// by hand behaves the same as one built from Option functions.
func (o Options) withDefaults() Options {
	if o.TopLevel == "" {
		if wd, err := os.Getwd(); err == nil {
			o.TopLevel = wd
		} else {
			o.TopLevel = "."
		}
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.SchemaDir == nil {
		o.SchemaDir = schemas.FS
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}
