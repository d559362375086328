package model

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// minProportion нижняя граница доли класса перед логарифмом
const minProportion = 1e-6

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Lexicon словарный рантайм на основе VADER. Не требует артефактов модели
// и подходит для разработки и тестов. Доли negative/neutral/positive из VADER
// переводятся в логиты через логарифм, так что softmax возвращает их же.
type Lexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexicon создает словарный рантайм
func NewLexicon() *Lexicon {
	return &Lexicon{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Logits оценивает текст словарем VADER
func (l *Lexicon) Logits(_ context.Context, text string) ([]float64, error) {
	scores := l.analyzer.PolarityScores(plainText(text))

	neutral := scores.Neutral
	if scores.Negative == 0 && scores.Neutral == 0 && scores.Positive == 0 {
		// В тексте нет ни одного слова из словаря
		neutral = 1
	}

	return []float64{
		logProportion(scores.Negative),
		logProportion(neutral),
		logProportion(scores.Positive),
	}, nil
}

// Name возвращает имя бэкенда
func (l *Lexicon) Name() string {
	return "lexicon"
}

// Close ничего не освобождает
func (l *Lexicon) Close() error {
	return nil
}

func logProportion(p float64) float64 {
	return math.Log(math.Max(p, minProportion))
}

// plainText убирает markdown разметку и ссылки из комментария
func plainText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := htmlTagPattern.ReplaceAllString(string(rendered), " ")
	text = html.UnescapeString(text)
	text = urlPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
