package verify

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/ladder"
)

// RunLint performs static lint checks on a network. Issues come in check
// order: STRUCT, DRIVER, CYCLE, PROPERTY. Returns an empty list if the
// network is clean.
func RunLint(net *ladder.Network) []Issue {
	var issues []Issue

	issues = append(issues, checkStructure(net)...)
	issues = append(issues, checkDrivers(net)...)
	issues = append(issues, checkCycles(net)...)
	issues = append(issues, checkProperties(net)...)

	return issues
}

func checkStructure(net *ladder.Network) []Issue {
	var issues []Issue

	idx := map[string]ladder.Element{}
	for _, el := range net.Elements {
		if _, dup := idx[el.ID]; dup {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Element: el.ID,
				Message: "duplicate element id",
			})
			continue
		}
		idx[el.ID] = el

		if !el.Type.Known() {
			continue
		}
		if !slices.Equal(el.Inputs, el.Type.Inputs()) || !slices.Equal(el.Outputs, el.Type.Outputs()) {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Element: el.ID,
				Message: fmt.Sprintf("ports %v -> %v do not match %s", el.Inputs, el.Outputs, el.Type),
				Details: map[string]interface{}{
					"want_inputs":  el.Type.Inputs(),
					"want_outputs": el.Type.Outputs(),
				},
			})
		}
	}

	for i, c := range net.Connections {
		if src, ok := idx[c.Source.Element]; !ok {
			issues = append(issues, danglingIssue(i, c, c.Source, "source element does not exist"))
		} else if !src.HasOutput(c.Source.Port) {
			issues = append(issues, danglingIssue(i, c, c.Source, "source port is not an output"))
		}

		if dst, ok := idx[c.Target.Element]; !ok {
			issues = append(issues, danglingIssue(i, c, c.Target, "target element does not exist"))
		} else if !dst.HasInput(c.Target.Port) {
			issues = append(issues, danglingIssue(i, c, c.Target, "target port is not an input"))
		}
	}

	return issues
}

func danglingIssue(i int, c ladder.Connection, at ladder.Endpoint, msg string) Issue {
	return Issue{
		Type:    IssueStruct,
		Element: at.Element,
		Port:    at.Port,
		Message: fmt.Sprintf("wire %s: %s", c, msg),
		Details: map[string]interface{}{"connection": i},
	}
}

func checkDrivers(net *ladder.Network) []Issue {
	var issues []Issue

	counts := map[ladder.Endpoint]int{}
	var order []ladder.Endpoint
	for _, c := range net.Connections {
		if counts[c.Target] == 0 {
			order = append(order, c.Target)
		}
		counts[c.Target]++
	}

	for _, ep := range order {
		n := counts[ep]
		if n < 2 {
			continue
		}
		first, _ := net.Feeder(ep.Element, ep.Port)
		issues = append(issues, Issue{
			Type:    IssueDriver,
			Element: ep.Element,
			Port:    ep.Port,
			Message: fmt.Sprintf("driven by %d wires, only %q is read", n, first.ID),
			Details: map[string]interface{}{"drivers": n},
		})
	}

	return issues
}

const (
	unvisited = iota
	onStack
	done
)

// checkCycles walks wires forward from every element and reports each back
// edge as a loop.
func checkCycles(net *ladder.Network) []Issue {
	var issues []Issue

	succ := map[string][]string{}
	for _, c := range net.Connections {
		src, dst := c.Source.Element, c.Target.Element
		if !slices.Contains(succ[src], dst) {
			succ[src] = append(succ[src], dst)
		}
	}

	state := map[string]int{}
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = onStack
		stack = append(stack, id)

		for _, next := range succ[id] {
			switch state[next] {
			case unvisited:
				visit(next)
			case onStack:
				start := slices.Index(stack, next)
				path := append(slices.Clone(stack[start:]), next)
				issues = append(issues, Issue{
					Type:    IssueCycle,
					Element: next,
					Message: "feedback loop " + strings.Join(path, " -> "),
					Details: map[string]interface{}{"path": path},
				})
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, el := range net.Elements {
		if state[el.ID] == unvisited {
			visit(el.ID)
		}
	}

	return issues
}

func checkProperties(net *ladder.Network) []Issue {
	var issues []Issue

	missing := func(el ladder.Element, key string) {
		issues = append(issues, Issue{
			Type:    IssueProperty,
			Element: el.ID,
			Message: fmt.Sprintf("%s has no %s", el.Type, key),
			Details: map[string]interface{}{"property": key},
		})
	}

	for _, el := range net.Elements {
		t := el.Type
		switch {
		case t.IsContact() || t.IsCoil():
			if el.Variable() == "" {
				missing(el, ladder.PropVariable)
			}
		case t.IsTimer():
			preset := el.Preset()
			if preset == "" {
				missing(el, ladder.PropPreset)
				continue
			}
			if _, ok := core.ParseTimeLiteral(preset); !ok {
				issues = append(issues, Issue{
					Type:    IssueProperty,
					Element: el.ID,
					Message: fmt.Sprintf("preset %q is not a T# literal, %s is used", preset, core.DefaultTimerPreset),
					Details: map[string]interface{}{"property": ladder.PropPreset},
				})
			}
		case t.IsCounter():
			preset := el.Preset()
			if preset == "" {
				missing(el, ladder.PropPreset)
				continue
			}
			if _, err := strconv.Atoi(preset); err != nil && !isIdentifier(preset) {
				issues = append(issues, Issue{
					Type:    IssueProperty,
					Element: el.ID,
					Message: fmt.Sprintf("preset %q is neither a count nor a variable", preset),
					Details: map[string]interface{}{"property": ladder.PropPreset},
				})
			}
		case t.IsArithmetic() || t.IsComparison():
			if strings.TrimSpace(el.Operand()) == "" {
				missing(el, ladder.PropOperand)
			}
		}
	}

	return issues
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && !(digit && i > 0) && r != '.' {
			return false
		}
	}
	return true
}
