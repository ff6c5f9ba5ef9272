// Package loader reads metamodel and model definitions from YAML files
// and checks their referential integrity before they reach the engine.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// LoadMetamodel reads a metamodel definition from a YAML file. Dangling
// superclass ids, unresolved reference targets and unknown constraint
// context classes are rejected as RegistrationErrors; missing constraint
// dialects default to OCL and missing severities to error.
func LoadMetamodel(path string) (*metamodel.Metamodel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metamodel: %w", err)
	}
	return ParseMetamodel(data)
}

// ParseMetamodel decodes and checks metamodel YAML.
func ParseMetamodel(data []byte) (*metamodel.Metamodel, error) {
	var mm metamodel.Metamodel
	if err := yaml.Unmarshal(data, &mm); err != nil {
		return nil, fmt.Errorf("parse metamodel: %w", err)
	}
	if mm.ID == "" {
		return nil, fmt.Errorf("metamodel has no id")
	}

	for _, c := range mm.Constraints {
		if c.Dialect == "" {
			c.Dialect = metamodel.DialectOCL
		}
		if c.Severity == "" {
			c.Severity = metamodel.SeverityError
		}
		c.Expression = metamodel.NormalizeExpression(c.Expression)
		if !metamodel.ValidDialects[c.Dialect] {
			return nil, fmt.Errorf("constraint %q: unknown dialect %q", c.ID, c.Dialect)
		}
		if !metamodel.ValidSeverities[c.Severity] {
			return nil, fmt.Errorf("constraint %q: unknown severity %q", c.ID, c.Severity)
		}
		// loaded constraints are presumed valid until the service
		// re-checks them
		c.IsValid = true
	}

	if err := checkMetamodel(&mm); err != nil {
		return nil, err
	}
	return &mm, nil
}

// LoadModel reads a model instance from a YAML file and checks it against
// its metamodel: every element must name a known metaclass, every stored
// reference a declared reference name, every target a known element.
func LoadModel(path string, mm *metamodel.Metamodel) (*metamodel.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseModel(data, mm)
}

// ParseModel decodes and checks model YAML.
func ParseModel(data []byte, mm *metamodel.Metamodel) (*metamodel.Model, error) {
	var model metamodel.Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if model.MetamodelID != "" && model.MetamodelID != mm.ID {
		return nil, fmt.Errorf("model %q conforms to metamodel %q, not %q",
			model.ID, model.MetamodelID, mm.ID)
	}
	model.MetamodelID = mm.ID

	if err := checkModel(&model, mm); err != nil {
		return nil, err
	}
	return &model, nil
}

func checkMetamodel(mm *metamodel.Metamodel) error {
	for _, class := range mm.Classes {
		for _, superID := range class.SuperTypes {
			if mm.ClassByID(superID) == nil {
				return &engine.RegistrationError{
					Code:        engine.ErrCodeClassNotFound,
					Message:     fmt.Sprintf("superclass %q of class %q not found", superID, class.Name),
					MetamodelID: mm.ID,
					ClassID:     class.ID,
				}
			}
		}
		for _, ref := range class.References {
			if mm.ClassByID(ref.TargetID) == nil {
				return &engine.RegistrationError{
					Code:        engine.ErrCodeUnresolvedTarget,
					Message:     fmt.Sprintf("reference %q targets unknown class %q", ref.Name, ref.TargetID),
					MetamodelID: mm.ID,
					ClassID:     class.ID,
				}
			}
		}
	}
	for _, c := range mm.Constraints {
		if mm.ClassByID(c.ContextID) == nil {
			return &engine.RegistrationError{
				Code:        engine.ErrCodeClassNotFound,
				Message:     fmt.Sprintf("constraint %q names unknown context class %q", c.Name, c.ContextID),
				MetamodelID: mm.ID,
				ClassID:     c.ContextID,
			}
		}
	}
	return nil
}

func checkModel(model *metamodel.Model, mm *metamodel.Metamodel) error {
	for _, el := range model.Elements {
		class := mm.ClassByID(el.MetaClassID)
		if class == nil {
			return &engine.RegistrationError{
				Code:        engine.ErrCodeClassNotFound,
				Message:     fmt.Sprintf("element %q instantiates unknown class %q", el.ID, el.MetaClassID),
				MetamodelID: mm.ID,
				ClassID:     el.MetaClassID,
			}
		}
		for name, targets := range el.References {
			if resolveReference(class, name, mm) == nil {
				return fmt.Errorf("element %q: reference %q not declared on class %q",
					el.ID, name, class.Name)
			}
			for _, target := range targets {
				if model.ElementByID(target) == nil {
					return &engine.RegistrationError{
						Code:    engine.ErrCodeElementNotFound,
						Message: fmt.Sprintf("element %q: reference %q targets unknown element %q", el.ID, name, target),
					}
				}
			}
		}
	}
	return nil
}

// resolveReference finds a reference declaration on the class or any of
// its ancestors. The visited set bounds malformed cyclic hierarchies.
func resolveReference(class *metamodel.MetaClass, name string, mm *metamodel.Metamodel) *metamodel.MetaReference {
	visited := map[string]bool{}
	var walk func(c *metamodel.MetaClass) *metamodel.MetaReference
	walk = func(c *metamodel.MetaClass) *metamodel.MetaReference {
		if c == nil || visited[c.ID] {
			return nil
		}
		visited[c.ID] = true
		if ref := c.ReferenceByName(name); ref != nil {
			return ref
		}
		for _, superID := range c.SuperTypes {
			if ref := walk(mm.ClassByID(superID)); ref != nil {
				return ref
			}
		}
		return nil
	}
	return walk(class)
}
