package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, JSONObject, or JSONArray.
type JSONValue interface{}

// JSONMember is a single key/value pair of a JSON object.
type JSONMember struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object as its members in source order.
// Key order drives field order in the generated classes, so a map won't do.
type JSONObject []JSONMember

// Get returns the value stored under key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the object keys in order.
func (o JSONObject) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds the parsed JSON document.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// Shape is a JSON object paired with the class name it is rendered under.
type Shape struct {
	Name   string
	Object JSONObject
}

// GeneratedCode is the Entity/Model source pair produced for one Shape.
type GeneratedCode struct {
	Name       string `json:"name"`
	FileName   string `json:"fileName"`
	EntityCode string `json:"entityCode"`
	ModelCode  string `json:"modelCode"`
}
