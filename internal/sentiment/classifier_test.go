package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRuntime реализует Runtime для тестов
type mockRuntime struct {
	logitsFunc func(ctx context.Context, text string) ([]float64, error)
	lastText   string
}

func (m *mockRuntime) Logits(ctx context.Context, text string) ([]float64, error) {
	m.lastText = text
	if m.logitsFunc != nil {
		return m.logitsFunc(ctx, text)
	}
	return nil, errors.New("not implemented")
}

func TestClassifier_Classify(t *testing.T) {
	t.Run("returns argmax of softmax", func(t *testing.T) {
		rt := &mockRuntime{logitsFunc: func(context.Context, string) ([]float64, error) {
			return []float64{3.0, 0.5, -1.0}, nil
		}}
		c := NewClassifier(rt, zap.NewNop())

		p, err := c.Classify(context.Background(), "ไม่ชอบเลยค่ะ")
		require.NoError(t, err)
		assert.Equal(t, Negative, p.Label)
		assert.Equal(t, "ไม่ชอบเลยค่ะ", rt.lastText)
	})

	t.Run("deterministic for the same input", func(t *testing.T) {
		rt := &mockRuntime{logitsFunc: func(_ context.Context, text string) ([]float64, error) {
			return []float64{float64(len(text)), 1, 2}, nil
		}}
		c := NewClassifier(rt, nil)

		first, err := c.Classify(context.Background(), "same text")
		require.NoError(t, err)
		second, err := c.Classify(context.Background(), "same text")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("truncates long input before the runtime", func(t *testing.T) {
		rt := &mockRuntime{logitsFunc: func(context.Context, string) ([]float64, error) {
			return []float64{0, 0, 1}, nil
		}}
		c := NewClassifier(rt, nil)

		_, err := c.Classify(context.Background(), strings.Repeat("ก", MaxTextLength+1))
		require.NoError(t, err)
		assert.Equal(t, MaxTextLength, TextLength(rt.lastText))
	})

	t.Run("runtime error is wrapped", func(t *testing.T) {
		runtimeErr := errors.New("tokenizer failed")
		rt := &mockRuntime{logitsFunc: func(context.Context, string) ([]float64, error) {
			return nil, runtimeErr
		}}
		c := NewClassifier(rt, nil)

		_, err := c.Classify(context.Background(), "text")
		assert.ErrorIs(t, err, runtimeErr)
	})

	t.Run("wrong number of classes", func(t *testing.T) {
		rt := &mockRuntime{logitsFunc: func(context.Context, string) ([]float64, error) {
			return []float64{0.1, 0.2, 0.3, 0.4}, nil
		}}
		c := NewClassifier(rt, nil)

		_, err := c.Classify(context.Background(), "text")
		assert.ErrorIs(t, err, ErrInvalidScores)
	})
}
