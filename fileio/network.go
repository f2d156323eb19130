package fileio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/ladderlogic/ladder"
)

type networkWire struct {
	ID          string           `json:"id" yaml:"id"`
	Elements    []elementWire    `json:"elements" yaml:"elements"`
	Connections []connectionWire `json:"connections" yaml:"connections"`
}

type elementWire struct {
	Type       string         `json:"type" yaml:"type"`
	ID         string         `json:"id" yaml:"id"`
	Position   positionWire   `json:"position" yaml:"position"`
	Inputs     []portWire     `json:"inputs" yaml:"inputs"`
	Outputs    []portWire     `json:"outputs" yaml:"outputs"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

type positionWire struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type portWire struct {
	ID string `json:"id" yaml:"id"`
}

type endpointWire struct {
	Element string `json:"element" yaml:"element"`
	Port    string `json:"port" yaml:"port"`
}

type connectionWire struct {
	Source endpointWire `json:"source" yaml:"source"`
	Target endpointWire `json:"target" yaml:"target"`
}

func toPorts(names []string) []portWire {
	ports := make([]portWire, 0, len(names))
	for _, n := range names {
		ports = append(ports, portWire{ID: n})
	}
	return ports
}

func fromPorts(ports []portWire) []string {
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.ID)
	}
	return names
}

// propertyString flattens a decoded property value. Null drops the key.
func propertyString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return fmt.Sprint(v), true
	}
}

func toWire(net *ladder.Network) networkWire {
	w := networkWire{
		ID:          net.ID,
		Elements:    make([]elementWire, 0, len(net.Elements)),
		Connections: make([]connectionWire, 0, len(net.Connections)),
	}

	for _, e := range net.Elements {
		props := make(map[string]any, len(e.Properties))
		for k, v := range e.Properties {
			props[k] = v
		}
		w.Elements = append(w.Elements, elementWire{
			Type:       string(e.Type),
			ID:         e.ID,
			Position:   positionWire{X: e.Position.X, Y: e.Position.Y},
			Inputs:     toPorts(e.Inputs),
			Outputs:    toPorts(e.Outputs),
			Properties: props,
		})
	}

	for _, c := range net.Connections {
		w.Connections = append(w.Connections, connectionWire{
			Source: endpointWire{Element: c.Source.Element, Port: c.Source.Port},
			Target: endpointWire{Element: c.Target.Element, Port: c.Target.Port},
		})
	}

	return w
}

func fromWire(w networkWire) *ladder.Network {
	net := &ladder.Network{
		ID:          w.ID,
		Elements:    make([]ladder.Element, 0, len(w.Elements)),
		Connections: make([]ladder.Connection, 0, len(w.Connections)),
	}

	for _, e := range w.Elements {
		props := make(map[string]string, len(e.Properties))
		for k, v := range e.Properties {
			if s, ok := propertyString(v); ok {
				props[k] = s
			}
		}
		net.Elements = append(net.Elements, ladder.Element{
			ID:         e.ID,
			Type:       ladder.ElementType(e.Type),
			Position:   ladder.Position{X: e.Position.X, Y: e.Position.Y},
			Inputs:     fromPorts(e.Inputs),
			Outputs:    fromPorts(e.Outputs),
			Properties: props,
		})
	}

	for _, c := range w.Connections {
		net.Connections = append(net.Connections,
			ladder.Connect(c.Source.Element, c.Source.Port, c.Target.Element, c.Target.Port))
	}

	return net
}

// EncodeNetwork renders a network as JSON or YAML.
func EncodeNetwork(net *ladder.Network, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(toWire(net), "", "  ")
	case YAML:
		return yaml.Marshal(toWire(net))
	default:
		return nil, fmt.Errorf("%w for networks: %q", ErrUnknownFormat, f)
	}
}

// DecodeNetwork parses a JSON or YAML network and validates it.
func DecodeNetwork(data []byte, f Format) (*ladder.Network, error) {
	net, err := decodeNetwork(data, f)
	if err != nil {
		return nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

func decodeNetwork(data []byte, f Format) (*ladder.Network, error) {
	var w networkWire
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &w)
	case YAML:
		err = yaml.Unmarshal(data, &w)
	default:
		return nil, fmt.Errorf("%w for networks: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	return fromWire(w), nil
}

// LoadNetwork reads and validates a network file.
func LoadNetwork(fs afero.Fs, path string) (*ladder.Network, error) {
	return loadNetwork(fs, path, DecodeNetwork)
}

// ReadNetwork reads a network file without validating it. Lint uses it to
// report every structural problem instead of failing on the first load.
func ReadNetwork(fs afero.Fs, path string) (*ladder.Network, error) {
	return loadNetwork(fs, path, decodeNetwork)
}

func loadNetwork(fs afero.Fs, path string,
	decode func([]byte, Format) (*ladder.Network, error),
) (*ladder.Network, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read network: %w", err)
	}

	net, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return net, nil
}

// SaveNetwork writes a network file.
func SaveNetwork(fs afero.Fs, path string, net *ladder.Network) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := EncodeNetwork(net, f)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write network: %w", err)
	}
	return nil
}
