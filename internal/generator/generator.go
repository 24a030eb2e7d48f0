package generator

import (
	"strings"

	"github.com/mcncl/dartyper/internal/analyzer"
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/models"
	"github.com/mcncl/dartyper/internal/parser"
)

// Generator renders Dart Entity/Model class pairs from JSON shapes.
type Generator struct {
	analyzer *analyzer.Analyzer
	config   *config.Config
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return NewGeneratorWithConfig(config.NewConfig())
}

// NewGeneratorWithConfig creates a new Generator instance with custom configuration.
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{
		analyzer: analyzer.NewAnalyzerWithConfig(cfg),
		config:   cfg,
	}
}

// field is one object member as it appears in the generated classes.
type field struct {
	key  string // JSON key
	name string // Dart identifier
	typ  models.DartType
}

func (g *Generator) fields(obj models.JSONObject) []field {
	fields := make([]field, len(obj))
	for i, m := range obj {
		fields[i] = field{
			key:  m.Key,
			name: g.analyzer.FieldName(m.Key),
			typ:  g.analyzer.InferType(m.Value, m.Key),
		}
	}
	return fields
}

// CollectGeneratedCodes renders one record per shape found in root: the root
// itself first, named className verbatim, then nested shapes in discovery order.
func (g *Generator) CollectGeneratedCodes(root models.JSONObject, className string) []models.GeneratedCode {
	shapes := g.analyzer.CollectShapes(root, className)
	codes := make([]models.GeneratedCode, 0, len(shapes))
	for _, shape := range shapes {
		codes = append(codes, models.GeneratedCode{
			Name:       shape.Name,
			FileName:   analyzer.ToSnakeCase(shape.Name),
			EntityCode: g.GenerateEntityClass(shape.Object, shape.Name),
			ModelCode:  g.GenerateModelClass(shape.Object, shape.Name),
		})
	}
	return codes
}

// Generate validates the class name and the document root, then collects
// the generated records. On error no records are returned.
func (g *Generator) Generate(ir models.IntermediateRepresentation, className string) ([]models.GeneratedCode, error) {
	if strings.TrimSpace(className) == "" {
		return nil, errors.NewInputError("class name is required", errors.ErrEmptyClassName)
	}
	root, err := g.analyzer.RootObject(ir)
	if err != nil {
		return nil, errors.NewInputError("the JSON root must be an object or an array of objects", err)
	}
	return g.CollectGeneratedCodes(root, className), nil
}

// GenerateFromString parses jsonText and generates the records for it.
// The class name is checked before the JSON is parsed.
func (g *Generator) GenerateFromString(jsonText, className string) ([]models.GeneratedCode, error) {
	if strings.TrimSpace(className) == "" {
		return nil, errors.NewInputError("class name is required", errors.ErrEmptyClassName)
	}
	ir, err := parser.ParseString(jsonText)
	if err != nil {
		return nil, err
	}
	return g.Generate(ir, className)
}
