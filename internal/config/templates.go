package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"retenet/internal/atomtab"
	"retenet/internal/template"
)

// TemplateFile is the top-level shape of a YAML template-definitions
// document (spec.md §3 D5): a flat list of deftemplate-equivalents,
// letting an operator hand-author schemas instead of constructing
// *template.Slot values in Go.
type TemplateFile struct {
	Templates []TemplateDef `yaml:"templates"`
}

// TemplateDef describes one template.
type TemplateDef struct {
	Name    string    `yaml:"name"`
	Implied bool      `yaml:"implied"`
	Slots   []SlotDef `yaml:"slots"`
}

// SlotDef describes one slot of a TemplateDef.
type SlotDef struct {
	Name    string   `yaml:"name"`
	Multi   bool     `yaml:"multi"`
	Default *string  `yaml:"default"` // literal lexeme, static default only
	Types   []string `yaml:"types"`   // e.g. "symbol", "string", "integer", "float"
}

// LoadTemplateFile parses a YAML template-definitions document from
// path.
func LoadTemplateFile(path string) (*TemplateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var tf TemplateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &tf, nil
}

// Register installs every template in tf into reg under mod, interning
// slot names and static defaults against tab. It stops at the first
// error, leaving earlier templates in the file already installed —
// callers loading at startup should treat any error as fatal.
func (tf *TemplateFile) Register(tab *atomtab.Table, reg *template.Registry, mod *template.Module) ([]*template.Template, error) {
	out := make([]*template.Template, 0, len(tf.Templates))
	for _, td := range tf.Templates {
		slots := make([]*template.Slot, 0, len(td.Slots))
		for _, sd := range td.Slots {
			slot := &template.Slot{
				Name:  tab.InternSymbol(sd.Name),
				Multi: sd.Multi,
			}
			if len(sd.Types) > 0 {
				slot.Constraint.AllowedTypes = make([]atomtab.Tag, 0, len(sd.Types))
				for _, t := range sd.Types {
					tag, err := parseTag(t)
					if err != nil {
						return out, fmt.Errorf("template %s slot %s: %w", td.Name, sd.Name, err)
					}
					slot.Constraint.AllowedTypes = append(slot.Constraint.AllowedTypes, tag)
				}
			}
			if sd.Default != nil {
				slot.Default = template.DefaultStatic
				slot.StaticDef = tab.InternSymbol(*sd.Default)
			}
			slots = append(slots, slot)
		}
		tmpl, err := reg.DefineTemplate(mod, tab.InternSymbol(td.Name), td.Implied, slots)
		if err != nil {
			return out, err
		}
		out = append(out, tmpl)
	}
	return out, nil
}

func parseTag(name string) (atomtab.Tag, error) {
	switch name {
	case "symbol":
		return atomtab.TagSymbol, nil
	case "string":
		return atomtab.TagString, nil
	case "integer":
		return atomtab.TagInteger, nil
	case "float":
		return atomtab.TagFloat, nil
	case "instance-name":
		return atomtab.TagInstanceName, nil
	default:
		return 0, fmt.Errorf("unknown slot type %q", name)
	}
}
