// Package models содержит DTO запросов и ответов HTTP API.
package models

// SentimentRequest запрос на анализ одного текста
type SentimentRequest struct {
	Text string `json:"text"`
}

// MultipleSentimentRequest запрос на анализ пакета текстов
type MultipleSentimentRequest struct {
	Texts []string `json:"texts"`
}

// YouTubeRequest запрос на анализ комментариев к видео
type YouTubeRequest struct {
	URL string `json:"url"`
}

// Probability вероятность одного класса
type Probability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// SentimentResponse результат анализа одного текста
type SentimentResponse struct {
	Text          string        `json:"text"`
	Sentiment     string        `json:"sentiment"`
	Probabilities []Probability `json:"probabilities"`
	Summary       string        `json:"summary"`
}

// MultipleSentimentResponse результат анализа пакета
type MultipleSentimentResponse struct {
	Result []SentimentResponse `json:"result"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// HealthResponse ответ проверки готовности
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}
