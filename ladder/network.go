package ladder

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/sarchlab/ladderlogic/validate"
)

// Endpoint names one port of one element.
type Endpoint struct {
	Element string
	Port    string
}

func (e Endpoint) String() string {
	return e.Element + "." + e.Port
}

// Connection is a directed wire from an output port to an input port.
type Connection struct {
	Source Endpoint
	Target Endpoint
}

// Connect is shorthand for a connection from src.srcPort to dst.dstPort.
func Connect(src, srcPort, dst, dstPort string) Connection {
	return Connection{
		Source: Endpoint{Element: src, Port: srcPort},
		Target: Endpoint{Element: dst, Port: dstPort},
	}
}

// Touches reports whether the connection references the element id.
func (c Connection) Touches(id string) bool {
	return c.Source.Element == id || c.Target.Element == id
}

func (c Connection) String() string {
	return c.Source.String() + " -> " + c.Target.String()
}

// Validate checks that every endpoint field is set.
func (c Connection) Validate() error {
	v := validate.New("connection", c.String())
	v.Check(c.Source.Element != "", "source.element", "must not be empty")
	v.Check(c.Source.Port != "", "source.port", "must not be empty")
	v.Check(c.Target.Element != "", "target.element", "must not be empty")
	v.Check(c.Target.Port != "", "target.port", "must not be empty")
	return v.Err()
}

// Network is a Ladder Diagram network. Elements keep their insertion order;
// duplicate connections are kept as they are.
type Network struct {
	ID          string
	Elements    []Element
	Connections []Connection
}

// NewNetwork creates an empty network. An empty id is replaced by a fresh
// UUID.
func NewNetwork(id string) *Network {
	if id == "" {
		id = uuid.NewString()
	}
	return &Network{ID: id}
}

// Clone returns a deep copy of n.
func (n *Network) Clone() *Network {
	c := &Network{
		ID:          n.ID,
		Elements:    make([]Element, len(n.Elements)),
		Connections: slices.Clone(n.Connections),
	}
	for i, e := range n.Elements {
		c.Elements[i] = e.Clone()
	}
	return c
}

// Element returns the element with the given id.
func (n *Network) Element(id string) (Element, bool) {
	i := n.indexOf(id)
	if i < 0 {
		return Element{}, false
	}
	return n.Elements[i], true
}

func (n *Network) indexOf(id string) int {
	return slices.IndexFunc(n.Elements, func(e Element) bool { return e.ID == id })
}

// Index maps element ids to elements.
func (n *Network) Index() map[string]Element {
	idx := make(map[string]Element, len(n.Elements))
	for _, e := range n.Elements {
		idx[e.ID] = e
	}
	return idx
}

// Incoming returns connections whose target is id.port, in network order.
func (n *Network) Incoming(id, port string) []Connection {
	var conns []Connection
	for _, c := range n.Connections {
		if c.Target.Element == id && c.Target.Port == port {
			conns = append(conns, c)
		}
	}
	return conns
}

// Outgoing returns connections whose source is id.port, in network order.
func (n *Network) Outgoing(id, port string) []Connection {
	var conns []Connection
	for _, c := range n.Connections {
		if c.Source.Element == id && c.Source.Port == port {
			conns = append(conns, c)
		}
	}
	return conns
}

// Feeder returns the element wired into id.port. When several wires drive
// the port, the first one in network order wins.
func (n *Network) Feeder(id, port string) (Element, bool) {
	for _, c := range n.Connections {
		if c.Target.Element == id && c.Target.Port == port {
			return n.Element(c.Source.Element)
		}
	}
	return Element{}, false
}

// Successors returns the elements driven from id.port, in connection order,
// each at most once.
func (n *Network) Successors(id, port string) []Element {
	var succ []Element
	seen := map[string]bool{}
	for _, c := range n.Outgoing(id, port) {
		if seen[c.Target.Element] {
			continue
		}
		seen[c.Target.Element] = true
		if e, ok := n.Element(c.Target.Element); ok {
			succ = append(succ, e)
		}
	}
	return succ
}

// NextID returns an id of the form <type>_<n> not used in n.
func (n *Network) NextID(t ElementType) string {
	for i := len(n.Elements) + 1; ; i++ {
		id := fmt.Sprintf("%s_%d", t, i)
		if n.indexOf(id) < 0 {
			return id
		}
	}
}

// Validate checks the network invariant: unique element ids, valid
// elements, and connections that reference existing elements through an
// output port on the source side and an input port on the target side.
func (n *Network) Validate() error {
	c := validate.New("network", n.ID)
	c.Check(n.ID != "", "id", "must not be empty")

	idx := make(map[string]Element, len(n.Elements))
	for i, e := range n.Elements {
		c.Nested(e.Validate())
		_, dup := idx[e.ID]
		c.Check(!dup, fmt.Sprintf("elements[%d].id", i), "duplicate element id %q", e.ID)
		idx[e.ID] = e
	}

	for i, conn := range n.Connections {
		field := fmt.Sprintf("connections[%d]", i)
		if err := conn.Validate(); err != nil {
			c.Nested(err)
			continue
		}

		src, ok := idx[conn.Source.Element]
		c.Check(ok, field+".source.element", "unknown element %q", conn.Source.Element)
		if ok {
			c.Check(src.HasOutput(conn.Source.Port), field+".source.port",
				"element %q has no output port %q", src.ID, conn.Source.Port)
		}

		dst, ok := idx[conn.Target.Element]
		c.Check(ok, field+".target.element", "unknown element %q", conn.Target.Element)
		if ok {
			c.Check(dst.HasInput(conn.Target.Port), field+".target.port",
				"element %q has no input port %q", dst.ID, conn.Target.Port)
		}
	}

	return c.Err()
}
