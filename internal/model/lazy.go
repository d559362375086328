package model

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Lazy загружает рантайм при первом обращении. Загрузка выполняется под
// мьютексом, поэтому конкурентные запросы ждут одну загрузку, а не запускают
// несколько. Неудачная загрузка не запоминается и повторяется при следующем вызове.
type Lazy struct {
	name   string
	load   Loader
	logger *zap.Logger

	mu sync.Mutex
	rt Runtime
}

// NewLazy создает обертку с отложенной загрузкой
func NewLazy(name string, load Loader, logger *zap.Logger) *Lazy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lazy{
		name:   name,
		load:   load,
		logger: logger,
	}
}

func (l *Lazy) get() (Runtime, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rt != nil {
		return l.rt, nil
	}

	rt, err := l.load()
	if err != nil {
		l.logger.Error("Error loading model", zap.String("backend", l.name), zap.Error(err))
		return nil, errors.Join(ErrNotLoaded, err)
	}
	l.logger.Info("Model loaded", zap.String("backend", rt.Name()))
	l.rt = rt
	return rt, nil
}

// Logits загружает рантайм при необходимости и выполняет инференс
func (l *Lazy) Logits(ctx context.Context, text string) ([]float64, error) {
	rt, err := l.get()
	if err != nil {
		return nil, err
	}
	return rt.Logits(ctx, text)
}

// Loaded сообщает, загружен ли рантайм
func (l *Lazy) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rt != nil
}

// Name возвращает имя бэкенда
func (l *Lazy) Name() string {
	return l.name
}

// Close освобождает рантайм, если он был загружен
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rt == nil {
		return nil
	}
	err := l.rt.Close()
	l.rt = nil
	return err
}
