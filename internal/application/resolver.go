package app

import (
	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

// MenuResolver сопоставляет метки модели с блюдами из каталога.
// Сопоставление точное и не зависит от порядка меток: совпасть должен
// ровно один известный класс.
type MenuResolver struct {
	dishes   map[string]string
	notFound string
	unknown  string
}

// NewMenuResolver создаёт резолвер по каталогу. Каталог копируется.
func NewMenuResolver(catalog *entity.Catalog) *MenuResolver {
	dishes := make(map[string]string, len(catalog.Dishes))
	for label, name := range catalog.Dishes {
		dishes[label] = name
	}
	return &MenuResolver{
		dishes:   dishes,
		notFound: catalog.Messages.NotFound,
		unknown:  catalog.Messages.Unknown,
	}
}

// Resolve возвращает название блюда для набора меток.
func (r *MenuResolver) Resolve(labels []string) entity.ReplyLabel {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}

	if len(set) == 0 {
		return entity.ReplyLabel{Text: r.notFound, Status: entity.LabelNotFound}
	}

	if len(set) == 1 {
		for label := range set {
			if name, ok := r.dishes[label]; ok {
				return entity.ReplyLabel{Text: name, Status: entity.LabelResolved}
			}
		}
	}

	return entity.ReplyLabel{Text: r.unknown, Status: entity.LabelUnknown}
}

var _ port.LabelResolver = (*MenuResolver)(nil)
