package completion

import (
	"bytes"
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/reef-shell/reef/internal/rerrors"
)

//go:embed definition_schema.json
var definitionSchemaJSON string

// DefinitionSchemaJSON returns the JSON Schema for declarative
// completion definitions.
func DefinitionSchemaJSON() string {
	return definitionSchemaJSON
}

// DefinitionRule is one rule in a declarative definition file.
type DefinitionRule struct {
	Short            string `yaml:"short"`
	Long             string `yaml:"long"`
	Old              string `yaml:"old"`
	Condition        string `yaml:"condition"`
	Arguments        string `yaml:"arguments"`
	Description      string `yaml:"description"`
	NoFiles          bool   `yaml:"no_files"`
	RequireParameter bool   `yaml:"require_parameter"`
	Exclusive        bool   `yaml:"exclusive"`
	KeepOrder        bool   `yaml:"keep_order"`
}

// Definition is a declarative completion definition for one command.
type Definition struct {
	Command       string           `yaml:"command"`
	Path          bool             `yaml:"path"`
	Authoritative *bool            `yaml:"authoritative"`
	Rules         []DefinitionRule `yaml:"rules"`
}

// LoadDefinition reads, templates, validates and decodes a definition
// file.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.NewDefinitionError(path, "failed to read definition", err)
	}

	rendered, err := renderDefinition(path, raw)
	if err != nil {
		return nil, err
	}

	var data interface{}
	if err := yaml.Unmarshal(rendered, &data); err != nil {
		return nil, rerrors.NewDefinitionError(path, "invalid YAML syntax", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(definitionSchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, rerrors.NewDefinitionError(path, "schema validation error", err)
	}
	if !result.Valid() {
		verr := result.Errors()[0]
		return nil, rerrors.NewDefinitionError(path,
			verr.Field()+": "+verr.Description(), nil)
	}

	var def Definition
	if err := yaml.Unmarshal(rendered, &def); err != nil {
		return nil, rerrors.NewDefinitionError(path, "failed to decode definition", err)
	}
	return &def, nil
}

// renderDefinition expands template directives in the file body. The
// environment is exposed as .Env so definitions can adapt to the host
// system.
func renderDefinition(path string, raw []byte) ([]byte, error) {
	tmpl, err := template.New(path).Funcs(sprig.TxtFuncMap()).Parse(string(raw))
	if err != nil {
		return nil, rerrors.NewDefinitionError(path, "invalid template", err)
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"Env": env}); err != nil {
		return nil, rerrors.NewDefinitionError(path, "template execution failed", err)
	}
	return buf.Bytes(), nil
}

// rule converts a definition rule into a registry rule.
func (dr DefinitionRule) rule() Rule {
	var spec OptionSpec
	if dr.Short != "" {
		spec.Short = []rune(dr.Short)[0]
	}
	switch {
	case dr.Long != "":
		spec.Long = dr.Long
	case dr.Old != "":
		spec.Long = dr.Old
		spec.OldStyle = true
	}

	var mode ResultMode
	if dr.NoFiles {
		mode |= ModeNoFiles
	}
	if dr.RequireParameter {
		mode |= ModeNoCommon
	}
	if dr.Exclusive {
		mode = ModeExclusive
	}

	return Rule{
		Option:      spec,
		Mode:        mode,
		Condition:   dr.Condition,
		Args:        dr.Arguments,
		Description: dr.Description,
		Flags:       Flags{DontSort: dr.KeepOrder},
	}
}

// Apply registers the definition's rules. Rules are added in file
// order, so later lines shadow earlier ones the same way repeated
// builtin calls do.
func (def *Definition) Apply(eng *Engine) {
	if def.Authoritative != nil {
		eng.reg.SetAuthoritative(def.Command, def.Path, *def.Authoritative)
	}
	for _, dr := range def.Rules {
		eng.reg.Add(def.Command, def.Path, dr.rule())
	}
}
