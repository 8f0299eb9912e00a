//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

var errDetectorClosed = errors.New("detector is closed")

// GoCVDetector распознаёт блюда моделью YOLOv8 в формате ONNX через OpenCV DNN.
// Модель загружается один раз при первом вызове и дальше только читается.
type GoCVDetector struct {
	cfg Config

	once    sync.Once
	initErr error
	loaded  bool
	net     gocv.Net
	classes []string

	// mu защищает net и loaded: Forward у cv::dnn::Net не потокобезопасен,
	// а Close может прийти, пока брошенный по таймауту infer ещё работает.
	mu sync.Mutex
}

// NewGoCVDetector создаёт детектор. Файлы модели читаются лениво.
func NewGoCVDetector(cfg Config) *GoCVDetector {
	return &GoCVDetector{cfg: cfg.withDefaults()}
}

// Detect запускает модель на сохранённом изображении.
// Сам проход сети прервать нельзя, поэтому при отмене ctx результат отбрасывается.
func (d *GoCVDetector) Detect(ctx context.Context, imagePath string) (entity.DetectionResult, error) {
	if err := d.load(); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInference, err)
	}

	type outcome struct {
		result entity.DetectionResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := d.infer(imagePath)
		done <- outcome{result: r, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", entity.ErrInference, ctx.Err())
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrInference, o.err)
		}
		return o.result, nil
	}
}

// Close освобождает сеть.
func (d *GoCVDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		d.loaded = false
		return d.net.Close()
	}
	return nil
}

// load читает модель и имена классов. Ошибка запоминается.
func (d *GoCVDetector) load() error {
	d.once.Do(func() {
		classes, err := LoadClassNames(d.cfg.ClassesPath)
		if err != nil {
			d.initErr = err
			return
		}

		net := gocv.ReadNetFromONNX(d.cfg.ModelPath)
		if net.Empty() {
			d.initErr = fmt.Errorf("failed to load model %s", d.cfg.ModelPath)
			return
		}
		if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
			net.Close()
			d.initErr = fmt.Errorf("set backend: %w", err)
			return
		}
		if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
			net.Close()
			d.initErr = fmt.Errorf("set target: %w", err)
			return
		}

		d.mu.Lock()
		d.net = net
		d.classes = classes
		d.loaded = true
		d.mu.Unlock()
	})
	return d.initErr
}

func (d *GoCVDetector) infer(imagePath string) (entity.DetectionResult, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("failed to decode image %s", imagePath)
	}
	defer img.Close()

	size := d.cfg.InputSize
	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	if !d.loaded {
		d.mu.Unlock()
		return nil, errDetectorClosed
	}
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	shape := out.Size()
	if len(shape) != 3 {
		return nil, fmt.Errorf("unexpected output dims %v", shape)
	}
	rows, anchors := shape[1], shape[2]
	if rows-4 != len(d.classes) {
		return nil, fmt.Errorf("model has %d classes, names file has %d", rows-4, len(d.classes))
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	xScale := float32(img.Cols()) / float32(size)
	yScale := float32(img.Rows()) / float32(size)
	candidates, err := decodeYOLOv8(data, rows, anchors, xScale, yScale, d.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return entity.DetectionResult{}, nil
	}

	boxes := make([]image.Rectangle, 0, len(candidates))
	scores := make([]float32, 0, len(candidates))
	for _, c := range candidates {
		boxes = append(boxes, image.Rect(c.box.X, c.box.Y, c.box.X+c.box.Width, c.box.Y+c.box.Height))
		scores = append(scores, c.score)
	}
	keep := gocv.NMSBoxes(boxes, scores, d.cfg.ScoreThreshold, d.cfg.NMSThreshold)

	result := make(entity.DetectionResult, 0, len(keep))
	for _, i := range keep {
		if i < 0 || i >= len(candidates) {
			return nil, errors.New("nms returned index out of range")
		}
		c := candidates[i]
		result = append(result, entity.Detection{
			Label:      d.classes[c.classID],
			Confidence: c.score,
			Box:        c.box,
		})
	}
	return result, nil
}

var _ port.Detector = (*GoCVDetector)(nil)
