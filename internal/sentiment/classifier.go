package sentiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Runtime рантайм модели классификации последовательностей.
// Logits возвращает оценки в порядке индексов классов.
type Runtime interface {
	Logits(ctx context.Context, text string) ([]float64, error)
}

// Classifier адаптер инференса: текст -> логиты -> вероятности -> класс.
// Не хранит изменяемого состояния и безопасен для конкурентного использования,
// если таким является рантайм.
type Classifier struct {
	runtime Runtime
	logger  *zap.Logger
}

// NewClassifier создает адаптер поверх загруженного рантайма
func NewClassifier(runtime Runtime, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		runtime: runtime,
		logger:  logger,
	}
}

// Classify классифицирует один текст. Текст обрезается до MaxTextLength
// символов, так же как это делает токенизатор модели.
func (c *Classifier) Classify(ctx context.Context, text string) (Prediction, error) {
	logits, err := c.runtime.Logits(ctx, Truncate(text, MaxTextLength))
	if err != nil {
		return Prediction{}, fmt.Errorf("run model: %w", err)
	}

	p, err := NewPrediction(logits)
	if err != nil {
		c.logger.Error("Model returned unusable scores",
			zap.Float64s("logits", logits),
			zap.Error(err))
		return Prediction{}, err
	}

	c.logger.Debug("Text classified",
		zap.Stringer("label", p.Label),
		zap.Float64("confidence", p.Confidence()))
	return p, nil
}
