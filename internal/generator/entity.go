package generator

import (
	"bytes"
	"fmt"

	"github.com/mcncl/dartyper/internal/analyzer"
	"github.com/mcncl/dartyper/internal/models"
)

const equatableImport = "import 'package:equatable/equatable.dart';\n"

// GenerateEntityClass renders the immutable Equatable value class for obj.
func (g *Generator) GenerateEntityClass(obj models.JSONObject, name string) string {
	className := analyzer.Capitalize(name) + models.EntityFlavor.Suffix()
	fields := g.fields(obj)

	var buf bytes.Buffer
	buf.WriteString(equatableImport)
	fmt.Fprintf(&buf, "\nclass %s extends Equatable {\n", className)

	for _, f := range fields {
		fmt.Fprintf(&buf, "  final %s %s;\n", f.typ.Ref(models.EntityFlavor), f.name)
	}

	fmt.Fprintf(&buf, "\n  const %s({\n", className)
	for _, f := range fields {
		fmt.Fprintf(&buf, "    required this.%s,\n", f.name)
	}
	buf.WriteString("  });\n\n")

	buf.WriteString("  @override\n  List<Object?> get props {\n    return [\n")
	for _, f := range fields {
		fmt.Fprintf(&buf, "      %s,\n", f.name)
	}
	buf.WriteString("    ];\n  }\n\n")

	fmt.Fprintf(&buf, "  %s copyWith({\n", className)
	for _, f := range fields {
		fmt.Fprintf(&buf, "    %s? %s,\n", f.typ.Ref(models.EntityFlavor), f.name)
	}
	buf.WriteString("  }) {\n")
	fmt.Fprintf(&buf, "    return %s(\n", className)
	for _, f := range fields {
		fmt.Fprintf(&buf, "      %s: %s ?? this.%s,\n", f.name, f.name, f.name)
	}
	buf.WriteString("    );\n")
	buf.WriteString("  }\n")
	buf.WriteString("}\n")

	return buf.String()
}
