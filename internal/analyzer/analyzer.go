package analyzer

import (
	"encoding/json"
	"math"

	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/models"
)

// Analyzer infers Dart types from JSON values and discovers the object
// shapes that need their own classes.
type Analyzer struct {
	// config holds configuration settings for analysis
	config *config.Config
	// singularize names array element classes
	singularize Singularizer
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Analyzer{
		config:      cfg,
		singularize: NewSingularizer(cfg.Naming.Singularizer),
	}
}

var defaultAnalyzer = NewAnalyzer()

// InferType infers the Dart type of value found under key using the default configuration.
func InferType(value models.JSONValue, key string) models.DartType {
	return defaultAnalyzer.InferType(value, key)
}

// InferType derives the Dart type that represents value, stored under key.
//
// Arrays are typed from their first element only; later elements are not
// inspected. Objects become references to a class named after the key.
func (a *Analyzer) InferType(value models.JSONValue, key string) models.DartType {
	switch v := value.(type) {
	case nil:
		return models.DartType{Kind: models.Dynamic}
	case models.JSONArray:
		return a.inferListType(v, key)
	case models.JSONObject:
		return models.DartType{Kind: models.Object, ClassName: a.ObjectClassName(key)}
	case string:
		return models.DartType{Kind: models.String}
	case bool:
		return models.DartType{Kind: models.Bool}
	default:
		if kind, ok := numberKind(v); ok {
			return models.DartType{Kind: kind}
		}
		return models.DartType{Kind: models.Dynamic}
	}
}

func (a *Analyzer) inferListType(arr models.JSONArray, key string) models.DartType {
	elem := models.DartType{Kind: models.Dynamic}
	if len(arr) > 0 {
		switch first := arr[0].(type) {
		case string:
			elem.Kind = models.String
		case bool:
			if a.config.Types.BoolLists {
				elem.Kind = models.Bool
			}
		case models.JSONObject:
			elem = models.DartType{Kind: models.Object, ClassName: a.ItemClassName(key)}
		default:
			if kind, ok := numberKind(first); ok {
				elem.Kind = kind
			}
		}
	}
	return models.DartType{Kind: models.List, Elem: &elem}
}

// numberKind reports Int for integral numbers and Double otherwise.
// 1.0 and 1e3 are integral.
func numberKind(v models.JSONValue) (models.DartKind, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil && !math.IsInf(parsed, 0) {
			return models.Dynamic, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		return models.Int, true
	case int64:
		return models.Int, true
	default:
		return models.Dynamic, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return models.Double, true
	}
	return models.Int, true
}

// RootObject returns the object that is rendered as the root class.
// An array root is typed by its first element, like any other array.
func (a *Analyzer) RootObject(ir models.IntermediateRepresentation) (models.JSONObject, error) {
	switch v := ir.Root.(type) {
	case models.JSONObject:
		return v, nil
	case models.JSONArray:
		if len(v) > 0 {
			if first, ok := v[0].(models.JSONObject); ok {
				return first, nil
			}
		}
	}
	return nil, errors.ErrUnsupportedRoot
}

// CollectShapes walks root depth-first and returns every shape that needs a
// class, root first and the rest in discovery order.
//
// Nested shapes are de-duplicated by name only: the first object seen under a
// name wins and later objects deriving the same name are neither emitted nor
// visited, even when their fields differ. The root name is not registered, so
// a nested key deriving the root's name produces a second shape of that name.
func (a *Analyzer) CollectShapes(root models.JSONObject, className string) []models.Shape {
	shapes := []models.Shape{{Name: className, Object: root}}
	seen := make(map[string]struct{})

	var walk func(obj models.JSONObject)
	walk = func(obj models.JSONObject) {
		for _, member := range obj {
			var (
				name   string
				nested models.JSONObject
			)
			switch v := member.Value.(type) {
			case models.JSONArray:
				if len(v) == 0 {
					continue
				}
				first, ok := v[0].(models.JSONObject)
				if !ok {
					continue
				}
				name, nested = a.ItemClassName(member.Key), first
			case models.JSONObject:
				name, nested = a.ObjectClassName(member.Key), v
			default:
				continue
			}

			if _, done := seen[name]; done {
				continue
			}
			seen[name] = struct{}{}
			shapes = append(shapes, models.Shape{Name: name, Object: nested})
			walk(nested)
		}
	}
	walk(root)

	return shapes
}
