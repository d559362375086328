// Package presentation превращает доменное предсказание в то, что видит
// пользователь API: отображаемые метки классов и текстовое резюме.
// Эмодзи и локализация живут только здесь, доменная модель их не знает.
package presentation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
)

// Placeholders шаблона резюме
const (
	confidencePlaceholder = "{confidence}"
	labelPlaceholder      = "{label}"
)

// Locale набор отображаемых меток и шаблон резюме
type Locale struct {
	Labels  [sentiment.NumClasses]string
	Summary string
}

var locales = map[string]Locale{
	"en": {
		Labels:  [sentiment.NumClasses]string{"negative", "neutral", "positive"},
		Summary: "model is {confidence}% confident this text is {label}",
	},
	"th": {
		Labels:  [sentiment.NumClasses]string{"เชิงลบ 😡", "เป็นกลาง 😐", "เชิงบวก 😄"},
		Summary: "โมเดลมั่นใจ {confidence}% ว่าเป็นข้อความ{label}",
	},
}

// labelsFile формат YAML файла с переопределением меток
type labelsFile struct {
	Labels struct {
		Negative string `yaml:"negative"`
		Neutral  string `yaml:"neutral"`
		Positive string `yaml:"positive"`
	} `yaml:"labels"`
	Summary string `yaml:"summary"`
}

// Presenter форматирует предсказания для ответа API
type Presenter struct {
	locale Locale
}

// New создает Presenter для встроенной локали
func New(locale string) (*Presenter, error) {
	l, ok := locales[locale]
	if !ok {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}
	return &Presenter{locale: l}, nil
}

// Load создает Presenter для локали и, если задан путь, применяет
// переопределения из YAML файла. Пустые поля файла не меняют значения локали.
func Load(locale, path string) (*Presenter, error) {
	p, err := New(locale)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	if err := p.apply(data); err != nil {
		return nil, fmt.Errorf("parse labels file %s: %w", path, err)
	}
	return p, nil
}

func (p *Presenter) apply(data []byte) error {
	var f labelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	overrides := [sentiment.NumClasses]string{f.Labels.Negative, f.Labels.Neutral, f.Labels.Positive}
	for i, v := range overrides {
		if v != "" {
			p.locale.Labels[i] = v
		}
	}
	if f.Summary != "" {
		if !strings.Contains(f.Summary, confidencePlaceholder) || !strings.Contains(f.Summary, labelPlaceholder) {
			return errors.New("summary must contain {confidence} and {label}")
		}
		p.locale.Summary = f.Summary
	}
	return nil
}

// Label возвращает отображаемую метку класса
func (p *Presenter) Label(l sentiment.Label) string {
	if !l.Valid() {
		return l.String()
	}
	return p.locale.Labels[l]
}

// Summary строит резюме с меткой победившего класса и уверенностью модели
func (p *Presenter) Summary(pred sentiment.Prediction) string {
	r := strings.NewReplacer(
		confidencePlaceholder, FormatConfidence(pred.Confidence()),
		labelPlaceholder, p.Label(pred.Label),
	)
	return r.Replace(p.locale.Summary)
}

// Confidence переводит вероятность в проценты с округлением до двух знаков
func Confidence(probability float64) float64 {
	return math.Round(probability*100*100) / 100
}

// FormatConfidence выводит уверенность в процентах с одним знаком после запятой
func FormatConfidence(probability float64) string {
	return strconv.FormatFloat(Confidence(probability), 'f', 1, 64)
}
