package vision

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadClassNames читает имена классов из YAML в формате ultralytics:
// names задаётся списком или словарём "индекс: имя".
func LoadClassNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	return ParseClassNames(data)
}

// ParseClassNames разбирает содержимое файла с именами классов.
func ParseClassNames(data []byte) ([]string, error) {
	var doc struct {
		Names yaml.Node `yaml:"names"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse class names: %w", err)
	}

	switch doc.Names.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := doc.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("decode class list: %w", err)
		}
		if len(names) == 0 {
			return nil, errors.New("class names are empty")
		}
		return names, nil

	case yaml.MappingNode:
		var byIndex map[int]string
		if err := doc.Names.Decode(&byIndex); err != nil {
			return nil, fmt.Errorf("decode class map: %w", err)
		}
		if len(byIndex) == 0 {
			return nil, errors.New("class names are empty")
		}
		names := make([]string, len(byIndex))
		for i, name := range byIndex {
			if i < 0 || i >= len(names) {
				return nil, fmt.Errorf("class index %d out of range 0..%d", i, len(names)-1)
			}
			names[i] = name
		}
		return names, nil

	default:
		return nil, errors.New("names must be a list or an index map")
	}
}
