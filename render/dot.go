// Package render draws a network as a Graphviz DOT graph. It only reads the
// network and the variable store.
package render

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/ladder"
)

var shapes = map[ladder.ElementType]string{
	ladder.Contact:        "box",
	ladder.ContactNegated: "box",
	ladder.Coil:           "ellipse",
	ladder.CoilNegated:    "ellipse",
}

// DOT generates a DOT representation of the network. When vars is not nil,
// contacts and coils carry their current value and energized ones are
// filled. Element positions are emitted as pinned node positions.
func DOT(net *ladder.Network, vars *core.VariableStore) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "digraph %q {\n", net.ID)
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=component, fontname=\"monospace\"];\n")
	sb.WriteString("\n")

	for _, el := range net.Elements {
		sb.WriteString("  " + node(el, vars) + ";\n")
	}
	sb.WriteString("\n")

	for _, c := range net.Connections {
		fmt.Fprintf(&sb, "  %q -> %q [taillabel=%q, headlabel=%q];\n",
			c.Source.Element, c.Target.Element, c.Source.Port, c.Target.Port)
	}

	sb.WriteString("}\n")
	return sb.String()
}

func node(el ladder.Element, vars *core.VariableStore) string {
	label := []string{string(el.Type)}
	for _, key := range []string{ladder.PropVariable, ladder.PropPreset, ladder.PropOperand} {
		if v, ok := el.Property(key); ok && v != "" {
			label = append(label, v)
		}
	}

	attrs := []string{
		fmt.Sprintf("pos=\"%g,%g!\"", el.Position.X, el.Position.Y),
	}
	if shape, ok := shapes[el.Type]; ok {
		attrs = append(attrs, "shape="+shape)
	}

	if vars != nil && (el.Type.IsContact() || el.Type.IsCoil()) {
		if v, ok := vars.Get(el.Variable()); ok {
			label = append(label, "= "+v.Value.String())
			if v.Value.Bool() != el.Type.Negated() {
				attrs = append(attrs, "style=filled", "fillcolor=\"palegreen\"")
			}
		}
	}

	if el.Type.Negated() {
		label[0] = "/" + label[0]
	}

	for i, l := range label {
		label[i] = escape(l)
	}
	attrs = append([]string{`label="` + strings.Join(label, `\n`) + `"`}, attrs...)
	return fmt.Sprintf("%q [%s]", el.ID, strings.Join(attrs, ", "))
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Export writes the DOT graph of the network to path.
func Export(fs afero.Fs, path string, net *ladder.Network, vars *core.VariableStore) error {
	if err := afero.WriteFile(fs, path, []byte(DOT(net, vars)), 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
