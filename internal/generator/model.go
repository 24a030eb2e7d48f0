package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mcncl/dartyper/internal/analyzer"
	"github.com/mcncl/dartyper/internal/models"
)

// GenerateModelClass renders the Model subclass of the entity for obj,
// with a defaulting constructor and a fromJson factory.
func (g *Generator) GenerateModelClass(obj models.JSONObject, name string) string {
	capitalized := analyzer.Capitalize(name)
	className := capitalized + models.ModelFlavor.Suffix()
	fields := g.fields(obj)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "import '%s';\n", g.entityImportPath(name))
	fmt.Fprintf(&buf, "\nclass %s extends %s%s {\n", className, capitalized, models.EntityFlavor.Suffix())

	fmt.Fprintf(&buf, "  const %s({\n", className)
	for _, f := range fields {
		fmt.Fprintf(&buf, "    %s? %s,\n", f.typ.Ref(models.ModelFlavor), f.name)
	}
	buf.WriteString("  }) : super(\n")
	for _, f := range fields {
		fmt.Fprintf(&buf, "          %s: %s ?? %s,\n", f.name, f.name, defaultValue(f.typ))
	}
	buf.WriteString("        );\n\n")

	fmt.Fprintf(&buf, "  factory %s.fromJson(Map<String, dynamic> json) {\n", className)
	fmt.Fprintf(&buf, "    return %s(\n", className)
	for _, f := range fields {
		writeFromJSON(&buf, f)
	}
	buf.WriteString("    );\n")
	buf.WriteString("  }\n")
	buf.WriteString("}\n")

	return buf.String()
}

// entityImportPath is the sibling entity file imported by the model.
// By default it is the plain lowercased class name, which differs from the
// snake_case file name for multi-word names ("UserAddress").
func (g *Generator) entityImportPath(name string) string {
	stem := strings.ToLower(name)
	if g.config.Naming.SnakeCaseImports {
		stem = analyzer.ToSnakeCase(name)
	}
	return stem + "_entity.dart"
}

// defaultValue is the value a Model passes to its entity when a field is omitted.
// Doubles default to 0 like ints.
func defaultValue(t models.DartType) string {
	switch t.Kind {
	case models.List:
		return "const []"
	case models.Object:
		return t.Ref(models.ModelFlavor) + "()"
	case models.String:
		return `""`
	case models.Int, models.Double:
		return "0"
	case models.Bool:
		return "false"
	default:
		return "null"
	}
}

// writeFromJSON writes the constructor argument reading field f from the json map.
func writeFromJSON(buf *bytes.Buffer, f field) {
	switch f.typ.Kind {
	case models.List:
		elem := f.typ.Elem
		switch {
		case elem == nil || elem.Kind == models.Dynamic:
			fmt.Fprintf(buf, "      %s: json['%s'] as List<dynamic>?,\n", f.name, f.key)
		case elem.Kind == models.Object:
			fmt.Fprintf(buf, "      %s: (json['%s'] as List<dynamic>?)\n", f.name, f.key)
			fmt.Fprintf(buf, "          ?.map((e) => %s.fromJson(e as Map<String, dynamic>))\n", elem.Ref(models.ModelFlavor))
			buf.WriteString("          .toList(),\n")
		default:
			fmt.Fprintf(buf, "      %s: (json['%s'] as List<dynamic>?)?.cast<%s>(),\n", f.name, f.key, elem.Ref(models.ModelFlavor))
		}
	case models.Object:
		fmt.Fprintf(buf, "      %s: json['%s'] == null\n", f.name, f.key)
		buf.WriteString("          ? null\n")
		fmt.Fprintf(buf, "          : %s.fromJson(\n", f.typ.Ref(models.ModelFlavor))
		fmt.Fprintf(buf, "              json['%s'] as Map<String, dynamic>,\n", f.key)
		buf.WriteString("            ),\n")
	default:
		fmt.Fprintf(buf, "      %s: json['%s'] as %s?,\n", f.name, f.key, f.typ.Ref(models.ModelFlavor))
	}
}
