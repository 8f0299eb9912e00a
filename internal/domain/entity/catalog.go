package entity

// Messages фиксированные тексты бота
type Messages struct {
	NotFound        string   `yaml:"not_found"`
	Unknown         string   `yaml:"unknown"`
	EditMenuTrigger string   `yaml:"edit_menu_trigger"`
	EditMenuPrompt  string   `yaml:"edit_menu_prompt"`
	Greeting        []string `yaml:"greeting"`
	Failure         string   `yaml:"failure"`
	CardAltText     string   `yaml:"card_alt_text"`
	RatingText      string   `yaml:"rating_text"`
	InfoLabel       string   `yaml:"info_label"`
	InfoText        string   `yaml:"info_text"`
	ActionLabel     string   `yaml:"action_label"`
}

// Catalog меню: метка класса модели -> название блюда, плюс тексты ответов.
type Catalog struct {
	Dishes   map[string]string `yaml:"dishes"`
	Messages Messages          `yaml:"messages"`
}
