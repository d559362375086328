// Package model содержит рантаймы модели классификации тональности.
//
// Рантайм загружается один раз на процесс и дальше используется только на чтение.
// По умолчанию загрузка выполняется при старте, чтобы сервис падал сразу,
// если артефакты модели недоступны.
package model

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/config"
)

// ErrNotLoaded возвращается, если рантайм не удалось загрузить
var ErrNotLoaded = errors.New("model runtime is not loaded")

// Runtime рантайм модели. Logits возвращает оценки в порядке классов
// negative, neutral, positive.
type Runtime interface {
	Logits(ctx context.Context, text string) ([]float64, error)
	Name() string
	Close() error
}

// Loader создает рантайм
type Loader func() (Runtime, error)

// Load создает рантайм по конфигурации. При MODEL_LAZY_LOAD загрузка
// откладывается до первого запроса.
func Load(cfg *config.Config, logger *zap.Logger) (Runtime, error) {
	loader, err := NewLoader(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.ModelLazyLoad {
		logger.Info("Model will be loaded on first use", zap.String("backend", cfg.ModelBackend))
		return NewLazy(cfg.ModelBackend, loader, logger), nil
	}

	rt, err := loader()
	if err != nil {
		return nil, errors.Join(ErrNotLoaded, err)
	}
	logger.Info("Model loaded", zap.String("backend", rt.Name()))
	return rt, nil
}

// NewLoader возвращает функцию загрузки для выбранного бэкенда
func NewLoader(cfg *config.Config, logger *zap.Logger) (Loader, error) {
	switch cfg.ModelBackend {
	case config.BackendONNX:
		return func() (Runtime, error) {
			rt, err := NewONNX(cfg.ModelPath, logger)
			if err != nil {
				return nil, err
			}
			return rt, nil
		}, nil
	case config.BackendRemote:
		return func() (Runtime, error) {
			return NewRemote(cfg.ModelEndpoint, cfg.ModelTimeout, logger), nil
		}, nil
	case config.BackendLexicon:
		return func() (Runtime, error) {
			return NewLexicon(), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}
