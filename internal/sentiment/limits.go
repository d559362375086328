package sentiment

import "unicode/utf8"

const (
	// MaxTextLength максимальная длина одного текста в символах (кодовых точках Unicode)
	MaxTextLength = 400
	// MaxBatchSize количество текстов, которое обрабатывается в одном пакете.
	// Все, что сверх лимита, отбрасывается без ошибки.
	MaxBatchSize = 250
)

// TextLength возвращает длину текста в кодовых точках
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate обрезает текст до limit кодовых точек
func Truncate(text string, limit int) string {
	if limit < 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// CapBatch возвращает первые MaxBatchSize элементов
func CapBatch(texts []string) []string {
	if len(texts) > MaxBatchSize {
		return texts[:MaxBatchSize]
	}
	return texts
}
