package declare

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dataplan/internal/common"
)

// StringOrArray accepts either a single string or an array of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if v, ok := common.First(s); ok && common.IsSingle(s) {
		return v, nil
	}

	return []string(s), nil
}

// declBody is the mapping form of one declaration.
type declBody struct {
	Fields    StringOrArray `yaml:"fields"`
	Where     *string       `yaml:"where"`
	API       string        `yaml:"api"`
	UpdateKey string        `yaml:"update_key"`
}

var declBodyKeys = []string{"fields", "where", "api", "update_key"}

// defaultsBody is the mapping form of the defaults section.
type defaultsBody struct {
	Fields StringOrArray `yaml:"fields"`
	API    string        `yaml:"api"`
}

var defaultsBodyKeys = []string{"fields", "api"}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return common.UnknownStr
	}
}
