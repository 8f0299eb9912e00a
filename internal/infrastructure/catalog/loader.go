package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"foodlens-bot/internal/domain/entity"
)

//go:embed *.yaml
var builtin embed.FS

// DefaultLocale каталог по умолчанию
const DefaultLocale = "en"

// Load читает каталог из файла path, а если он не задан, встроенный каталог для locale.
func Load(locale, path string) (*entity.Catalog, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case path != "":
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	default:
		if locale == "" {
			locale = DefaultLocale
		}
		data, err = builtin.ReadFile(locale + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("unknown catalog locale %q", locale)
		}
	}

	return Parse(data)
}

// Parse разбирает и проверяет каталог.
func Parse(data []byte) (*entity.Catalog, error) {
	var c entity.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func validate(c *entity.Catalog) error {
	var errs []error
	if len(c.Dishes) == 0 {
		errs = append(errs, errors.New("dishes are empty"))
	}
	for label, name := range c.Dishes {
		if name == "" {
			errs = append(errs, fmt.Errorf("dish %q has empty name", label))
		}
	}
	m := c.Messages
	required := map[string]string{
		"not_found":         m.NotFound,
		"unknown":           m.Unknown,
		"edit_menu_trigger": m.EditMenuTrigger,
		"edit_menu_prompt":  m.EditMenuPrompt,
		"failure":           m.Failure,
	}
	for key, v := range required {
		if v == "" {
			errs = append(errs, fmt.Errorf("message %q is empty", key))
		}
	}
	if len(m.Greeting) == 0 {
		errs = append(errs, errors.New("message \"greeting\" is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}
