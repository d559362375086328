package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScores возвращается, если рантайм модели вернул оценки,
// из которых нельзя получить распределение по классам.
var ErrInvalidScores = errors.New("invalid model scores")

// Prediction результат классификации одного текста
type Prediction struct {
	Label         Label
	Probabilities [NumClasses]float64
}

// Confidence вероятность предсказанного класса
func (p Prediction) Confidence() float64 {
	return p.Probabilities[p.Label]
}

// Softmax нормализует логиты в распределение вероятностей.
// Перед экспонентой вычитается максимум, чтобы не переполнить float64.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxVal)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax возвращает индекс максимального значения.
// При равенстве выигрывает меньший индекс.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// NewPrediction строит предсказание из логитов модели
func NewPrediction(logits []float64) (Prediction, error) {
	if len(logits) != NumClasses {
		return Prediction{}, fmt.Errorf("%w: expected %d scores, got %d", ErrInvalidScores, NumClasses, len(logits))
	}
	for i, v := range logits {
		if math.IsNaN(v) || math.IsInf(v, 1) {
			return Prediction{}, fmt.Errorf("%w: score %d is %v", ErrInvalidScores, i, v)
		}
	}

	probs := Softmax(logits)
	if math.IsNaN(probs[0]) {
		return Prediction{}, fmt.Errorf("%w: all scores are -Inf", ErrInvalidScores)
	}
	var p Prediction
	copy(p.Probabilities[:], probs)
	p.Label = Label(Argmax(probs))
	return p, nil
}
