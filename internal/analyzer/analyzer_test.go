package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/models"
	"github.com/mcncl/dartyper/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseObject(t *testing.T, jsonStr string) models.JSONObject {
	t.Helper()
	ir, err := parser.Parse(strings.NewReader(jsonStr))
	require.NoError(t, err)
	obj, ok := ir.Root.(models.JSONObject)
	require.True(t, ok, "root is %T", ir.Root)
	return obj
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		value  models.JSONValue
		key    string
		entity string
		model  string
	}{
		{"null", nil, "x", "dynamic", "dynamic"},
		{"string", "hello", "x", "String", "String"},
		{"integer", json.Number("42"), "x", "int", "int"},
		{"negative integer", json.Number("-7"), "x", "int", "int"},
		{"integral float", json.Number("1.0"), "x", "int", "int"},
		{"exponent integral", json.Number("1e3"), "x", "int", "int"},
		{"float", json.Number("3.14"), "x", "double", "double"},
		{"overflowing float", json.Number("1e400"), "x", "double", "double"},
		{"bool", true, "x", "bool", "bool"},
		{"empty array", models.JSONArray{}, "tags", "List<dynamic>", "List<dynamic>"},
		{"string array", models.JSONArray{"a", json.Number("1")}, "tags", "List<String>", "List<String>"},
		{"int array", models.JSONArray{json.Number("1"), json.Number("2.5")}, "ids", "List<int>", "List<int>"},
		{"double array", models.JSONArray{json.Number("2.5"), json.Number("1")}, "scores", "List<double>", "List<double>"},
		{"bool array", models.JSONArray{false, true}, "flags", "List<bool>", "List<bool>"},
		{"null-first array", models.JSONArray{nil, "a"}, "xs", "List<dynamic>", "List<dynamic>"},
		{"nested array", models.JSONArray{models.JSONArray{"a"}}, "grid", "List<dynamic>", "List<dynamic>"},
		{
			"object array", models.JSONArray{models.JSONObject{{Key: "id", Value: json.Number("1")}}},
			"addresses", "List<AddresseEntity>", "List<AddresseModel>",
		},
		{
			"object array single s", models.JSONArray{models.JSONObject{}},
			"items", "List<ItemEntity>", "List<ItemModel>",
		},
		{
			"object", models.JSONObject{{Key: "city", Value: "c"}},
			"address", "AddressEntity", "AddressModel",
		},
		{"empty object", models.JSONObject{}, "meta", "MetaEntity", "MetaModel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferType(tt.value, tt.key)
			assert.Equal(t, tt.entity, got.Ref(models.EntityFlavor))
			assert.Equal(t, tt.model, got.Ref(models.ModelFlavor))
		})
	}
}

func TestInferType_BoolListsDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Types.BoolLists = false
	a := NewAnalyzerWithConfig(cfg)

	assert.Equal(t, "List<dynamic>", a.InferType(models.JSONArray{true}, "flags").Ref(models.EntityFlavor))
	// A plain bool is unaffected.
	assert.Equal(t, "bool", a.InferType(false, "flag").Ref(models.EntityFlavor))
}

func TestInferType_ObjectAndModelDifferOnlyBySuffix(t *testing.T) {
	root := mustParseObject(t, `{
		"profile": {"bio": "x"},
		"orders": [{"id": 1}],
		"tags": ["a"],
		"n": 1
	}`)

	for _, member := range root {
		typ := InferType(member.Value, member.Key)
		entity := typ.Ref(models.EntityFlavor)
		model := typ.Ref(models.ModelFlavor)
		if strings.Contains(entity, "Entity") {
			assert.Equal(t, strings.ReplaceAll(entity, "Entity", "Model"), model, member.Key)
		} else {
			assert.Equal(t, entity, model, member.Key)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"user":      "User",
		"User":      "User",
		"userName":  "UserName",
		"user_name": "User_name",
		"élan":      "Élan",
		"ßeta":      "SSeta",
		"1st":       "1st",
	}
	for in, want := range tests {
		assert.Equal(t, want, Capitalize(in), in)
	}
}

func TestStripTrailingS(t *testing.T) {
	tests := map[string]string{
		"addresses": "addresse",
		"items":     "item",
		"bus":       "bu",
		"ss":        "s",
		"data":      "data",
		"ITEMS":     "ITEMS",
		"s":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripTrailingS(in), in)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"User":        "user",
		"UserAddress": "user_address",
		"HTTPServer":  "http_server",
		"userID":      "user_id",
		"Item2Detail": "item2_detail",
		"already_low": "already_low",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestItemClassName(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, "Address", a.ItemClassName("address"))
	assert.Equal(t, "Item", a.ItemClassName("items"))
	assert.Equal(t, "Bu", a.ItemClassName("bus"))
	assert.Equal(t, "Addresse", a.ItemClassName("addresses"))
}

func TestItemClassName_Inflect(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Naming.Singularizer = SingularizerInflect
	a := NewAnalyzerWithConfig(cfg)

	assert.Equal(t, "Address", a.ItemClassName("addresses"))
	assert.Equal(t, "Category", a.ItemClassName("categories"))
	assert.Equal(t, "Item", a.ItemClassName("items"))
}

func TestFieldName(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, "first_name", a.FieldName("first_name"))

	cfg := config.NewConfig()
	cfg.Naming.CamelCaseFields = true
	camel := NewAnalyzerWithConfig(cfg)
	assert.Equal(t, "firstName", camel.FieldName("first_name"))
	assert.Equal(t, "id", camel.FieldName("id"))
	assert.Equal(t, "createdAt", camel.FieldName("created-at"))
}

func shapeNames(shapes []models.Shape) []string {
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.Name
	}
	return names
}

func TestCollectShapes_Order(t *testing.T) {
	root := mustParseObject(t, `{
		"name": "a",
		"address": {"city": "c", "geo": {"lat": 1.5}},
		"orders": [{"id": 1, "lines": [{"sku": "x"}]}, {"other": true}],
		"meta": {}
	}`)

	shapes := NewAnalyzer().CollectShapes(root, "user")

	assert.Equal(t, []string{"user", "Address", "Geo", "Order", "Line", "Meta"}, shapeNames(shapes))
	assert.Equal(t, []string{"name", "address", "orders", "meta"}, shapes[0].Object.Keys())
	// Only the first array element is used.
	assert.Equal(t, []string{"id", "lines"}, shapes[3].Object.Keys())
}

func TestCollectShapes_NameCollisionFirstSeenWins(t *testing.T) {
	root := mustParseObject(t, `{
		"city": {"name": "Paris"},
		"cities": [{"zip": 75000, "country": {"code": "FR"}}]
	}`)

	shapes := NewAnalyzer().CollectShapes(root, "Trip")

	require.Equal(t, []string{"Trip", "City"}, shapeNames(shapes))
	assert.Equal(t, []string{"name"}, shapes[1].Object.Keys())
}

func TestCollectShapes_RootNameIsNotReserved(t *testing.T) {
	root := mustParseObject(t, `{"user": {"id": 1}}`)

	shapes := NewAnalyzer().CollectShapes(root, "User")

	assert.Equal(t, []string{"User", "User"}, shapeNames(shapes))
}

func TestCollectShapes_SkipsNonObjectArrays(t *testing.T) {
	root := mustParseObject(t, `{"tags": ["a"], "empty": [], "grid": [[{"a": 1}]], "nulls": [null, {"a": 1}], "n": null}`)

	shapes := NewAnalyzer().CollectShapes(root, "Doc")

	assert.Equal(t, []string{"Doc"}, shapeNames(shapes))
}

func TestCollectShapes_IndependentRuns(t *testing.T) {
	root := mustParseObject(t, `{"address": {"city": "c"}}`)
	a := NewAnalyzer()

	first := a.CollectShapes(root, "User")
	second := a.CollectShapes(root, "User")

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestRootObject(t *testing.T) {
	a := NewAnalyzer()

	obj, err := a.RootObject(models.IntermediateRepresentation{Root: models.JSONObject{{Key: "a", Value: true}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, obj.Keys())

	obj, err = a.RootObject(models.IntermediateRepresentation{
		Root:        models.JSONArray{models.JSONObject{{Key: "id", Value: json.Number("1")}}, "ignored"},
		RootIsArray: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, obj.Keys())

	for _, root := range []models.JSONValue{nil, "x", json.Number("1"), true, models.JSONArray{}, models.JSONArray{"a"}} {
		_, err := a.RootObject(models.IntermediateRepresentation{Root: root})
		assert.ErrorIs(t, err, errors.ErrUnsupportedRoot)
	}
}
