//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

// GoCVDetector заглушка без OpenCV
type GoCVDetector struct {
	cfg Config
}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector(cfg Config) *GoCVDetector {
	return &GoCVDetector{cfg: cfg.withDefaults()}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, imagePath string) (entity.DetectionResult, error) {
	_ = ctx
	_ = imagePath
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrInference)
}

// Close ничего не делает.
func (d *GoCVDetector) Close() error {
	return nil
}

var _ port.Detector = (*GoCVDetector)(nil)
