// Package sentiment содержит доменную модель классификатора тональности:
// фиксированный набор классов, ограничения на входной текст и адаптер инференса.
package sentiment

import "fmt"

// Label индекс класса тональности. Порядок классов фиксирован и совпадает
// с порядком выходов модели.
type Label int

const (
	Negative Label = iota
	Neutral
	Positive
)

// NumClasses количество классов, которое возвращает модель
const NumClasses = 3

var labelNames = [NumClasses]string{"negative", "neutral", "positive"}

// Labels возвращает все классы в порядке индексов
func Labels() []Label {
	return []Label{Negative, Neutral, Positive}
}

// Valid проверяет, что индекс входит в набор классов
func (l Label) Valid() bool {
	return l >= 0 && int(l) < NumClasses
}

// String возвращает доменное имя класса без какого-либо оформления
func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel находит класс по доменному имени
func ParseLabel(name string) (Label, bool) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), true
		}
	}
	return 0, false
}
