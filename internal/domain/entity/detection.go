package entity

// Box прямоугольник вокруг найденного объекта
type Box struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина в пикселях
	Height int // высота в пикселях
}

// Area возвращает площадь прямоугольника
func (b Box) Area() int {
	return b.Width * b.Height
}

// Detection один найденный моделью объект
type Detection struct {
	Label      string
	Confidence float32
	Box        Box
}

// DetectionResult найденные объекты в порядке, который вернула модель.
type DetectionResult []Detection

// Labels возвращает метки классов без дедупликации. Никогда не nil.
func (r DetectionResult) Labels() []string {
	labels := make([]string, 0, len(r))
	for _, d := range r {
		labels = append(labels, d.Label)
	}
	return labels
}
