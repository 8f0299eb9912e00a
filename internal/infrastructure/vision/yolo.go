package vision

import (
	"fmt"

	"foodlens-bot/internal/domain/entity"
)

// candidate предсказание до подавления немаксимумов
type candidate struct {
	classID int
	score   float32
	box     entity.Box
}

// decodeYOLOv8 разбирает выход сети формы [1, 4+nc, anchors]: по столбцу на якорь,
// строки 0..3 это cx, cy, w, h во входных координатах, дальше уверенности классов.
// xScale и yScale переводят координаты в размер исходного изображения.
func decodeYOLOv8(data []float32, rows, anchors int, xScale, yScale, threshold float32) ([]candidate, error) {
	if rows <= 4 || anchors <= 0 {
		return nil, fmt.Errorf("unexpected output shape [%d, %d]", rows, anchors)
	}
	if len(data) < rows*anchors {
		return nil, fmt.Errorf("output has %d values, want %d", len(data), rows*anchors)
	}

	at := func(row, col int) float32 { return data[row*anchors+col] }

	var out []candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < rows-4; c++ {
			if s := at(4+c, i); s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || bestScore < threshold {
			continue
		}

		cx, cy, w, h := at(0, i), at(1, i), at(2, i), at(3, i)
		box := entity.Box{
			X:      int((cx - w/2) * xScale),
			Y:      int((cy - h/2) * yScale),
			Width:  int(w * xScale),
			Height: int(h * yScale),
		}
		// Вырожденные рамки NMS не отсеет, а меткой они быть не должны.
		if box.Width <= 0 || box.Area() <= 0 {
			continue
		}
		out = append(out, candidate{classID: best, score: bestScore, box: box})
	}
	return out, nil
}
