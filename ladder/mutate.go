package ladder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sarchlab/ladderlogic/validate"
)

// ErrElementNotFound is returned when a mutation names an unknown element.
var ErrElementNotFound = errors.New("element not found")

// AddElement returns a copy of n with e appended. An element without id gets
// one from NextID.
func AddElement(n *Network, e Element) (*Network, error) {
	if e.ID == "" {
		e.ID = n.NextID(e.Type)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if n.indexOf(e.ID) >= 0 {
		c := validate.New("element", e.ID)
		c.Check(false, "id", "duplicate element id in network %q", n.ID)
		return nil, c.Err()
	}

	out := n.Clone()
	out.Elements = append(out.Elements, e.Clone())
	return out, nil
}

// RemoveElement returns a copy of n without the element and without every
// connection touching it.
func RemoveElement(n *Network, id string) *Network {
	out := n.Clone()
	out.Elements = slices.DeleteFunc(out.Elements, func(e Element) bool {
		return e.ID == id
	})
	out.Connections = slices.DeleteFunc(out.Connections, func(c Connection) bool {
		return c.Touches(id)
	})
	return out
}

// AddConnection returns a copy of n with c appended. Both endpoints must
// name existing elements and declared ports.
func AddConnection(n *Network, c Connection) (*Network, error) {
	out := n.Clone()
	out.Connections = append(out.Connections, c)

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("adding connection %s: %w", c, err)
	}

	return out, nil
}

// RemoveConnection returns a copy of n without every connection equal to c.
func RemoveConnection(n *Network, c Connection) *Network {
	out := n.Clone()
	out.Connections = slices.DeleteFunc(out.Connections, func(x Connection) bool {
		return x == c
	})
	return out
}

// UpdatePosition returns a copy of n with the element moved to pos.
func UpdatePosition(n *Network, id string, pos Position) (*Network, error) {
	i := n.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}

	out := n.Clone()
	out.Elements[i].Position = pos
	return out, nil
}

// UpdateProperty returns a copy of n with one element property set.
func UpdateProperty(n *Network, id, key, value string) (*Network, error) {
	i := n.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}

	out := n.Clone()
	out.Elements[i].Properties[key] = value
	return out, nil
}
