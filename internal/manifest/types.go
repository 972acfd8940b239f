package manifest

// Manifest is a parsed analysis manifest exactly as it appears on disk.
type Manifest map[string]any

// Analysis is a typed view of the fields the client acts on.
type Analysis struct {
	Version  string   `yaml:"version,omitempty" json:"version,omitempty"`
	Inputs   *Inputs  `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Workflow Workflow `yaml:"workflow" json:"workflow"`
	Outputs  *Outputs `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// Inputs declares the files, directories, and parameters an analysis needs.
type Inputs struct {
	Files       []string               `yaml:"files,omitempty" json:"files,omitempty"`
	Directories []string               `yaml:"directories,omitempty" json:"directories,omitempty"`
	Parameters  map[string]interface{} `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Options     map[string]interface{} `yaml:"options,omitempty" json:"options,omitempty"`
}

// Workflow names the workflow dialect and where its specification lives.
// Either File or Specification is set.
type Workflow struct {
	Type          string                 `yaml:"type" json:"type"`
	File          string                 `yaml:"file,omitempty" json:"file,omitempty"`
	Specification map[string]interface{} `yaml:"specification,omitempty" json:"specification,omitempty"`
}

// Outputs declares what the analysis produces.
type Outputs struct {
	Files       []string `yaml:"files,omitempty" json:"files,omitempty"`
	Directories []string `yaml:"directories,omitempty" json:"directories,omitempty"`
}
