package port

import (
	"context"

	"foodlens-bot/internal/domain/entity"
)

// Detector интерфейс модели распознавания блюд
type Detector interface {
	// Detect находит объекты на сохранённом изображении
	Detect(ctx context.Context, imagePath string) (entity.DetectionResult, error)
}
