package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type EngineKind int

const (
	ENGINE_BUILTIN EngineKind = iota
	ENGINE_HVM
)

func (e EngineKind) String() string {
	switch e {
	case ENGINE_BUILTIN:
		return "builtin"
	case ENGINE_HVM:
		return "hvm"
	}
	return "unknown"
}

func ParseEngine(name string) (EngineKind, error) {
	switch name {
	case "builtin":
		return ENGINE_BUILTIN, nil
	case "hvm":
		return ENGINE_HVM, nil
	}
	return 0, fmt.Errorf("unknown engine %q, expected builtin or hvm", name)
}

func (e *EngineKind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	kind, err := ParseEngine(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = kind
	return nil
}

func (e EngineKind) MarshalYAML() (any, error) {
	return e.String(), nil
}
