package vision

const (
	defaultInputSize      = 640
	defaultScoreThreshold = 0.25
	defaultNMSThreshold   = 0.45
)

// Config параметры детектора блюд
type Config struct {
	ModelPath      string  // ONNX-модель YOLOv8
	ClassesPath    string  // YAML с именами классов
	InputSize      int     // сторона входа сети в пикселях
	ScoreThreshold float32 // минимальная уверенность
	NMSThreshold   float32 // порог IoU для подавления дублей
}

func (c Config) withDefaults() Config {
	if c.InputSize <= 0 {
		c.InputSize = defaultInputSize
	}
	if c.ScoreThreshold <= 0 {
		c.ScoreThreshold = defaultScoreThreshold
	}
	if c.NMSThreshold <= 0 {
		c.NMSThreshold = defaultNMSThreshold
	}
	return c
}
