package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/metrics"
	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
)

// fakeClassifier помечает текст как positive, если он содержит "good",
// иначе как negative. Считает вызовы.
type fakeClassifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (sentiment.Prediction, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.err != nil {
		return sentiment.Prediction{}, f.err
	}
	if strings.Contains(text, "good") {
		return sentiment.NewPrediction([]float64{0, 0, 3})
	}
	return sentiment.NewPrediction([]float64{3, 0, 0})
}

type fakeComments struct {
	comments  []string
	err       error
	gotLimit  int
	reference string
}

func (f *fakeComments) Fetch(_ context.Context, reference string, limit int) ([]string, error) {
	f.reference = reference
	f.gotLimit = limit
	return f.comments, f.err
}

func newTestService(c Classifier, s CommentSource) *SentimentServiceImpl {
	return NewSentimentService(c, s, metrics.New(), zap.NewNop())
}

func assertValidation(t *testing.T, err error, code string) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, code, ve.Code)
	return ve
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
		wantMsg  string
		want     sentiment.Label
	}{
		{name: "positive", text: "good movie", want: sentiment.Positive},
		{name: "negative", text: "หนังแย่มาก", want: sentiment.Negative},
		{name: "exactly 400 characters", text: strings.Repeat("ก", 400), want: sentiment.Negative},
		{name: "empty", text: "", wantCode: CodeEmptyText},
		{name: "whitespace only", text: " \t\n ", wantCode: CodeEmptyText},
		{name: "401 characters", text: strings.Repeat("ก", 401), wantCode: CodeTextTooLong, wantMsg: "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &fakeClassifier{}
			svc := newTestService(clf, &fakeComments{})

			got, err := svc.Predict(context.Background(), tt.text)
			if tt.wantCode != "" {
				ve := assertValidation(t, err, tt.wantCode)
				if tt.wantMsg != "" {
					assert.Contains(t, ve.Message, tt.wantMsg)
				}
				assert.Empty(t, clf.calls, "validation must short-circuit inference")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.want, got.Prediction.Label)
			assert.InDelta(t, 1.0, got.Prediction.Probabilities[0]+got.Prediction.Probabilities[1]+got.Prediction.Probabilities[2], 1e-3)
		})
	}
}

func TestPredict_ClassifierError(t *testing.T) {
	modelErr := errors.New("session closed")
	svc := newTestService(&fakeClassifier{err: modelErr}, &fakeComments{})

	_, err := svc.Predict(context.Background(), "good")
	require.ErrorIs(t, err, modelErr)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestPredictMultiple(t *testing.T) {
	t.Run("order preserved", func(t *testing.T) {
		svc := newTestService(&fakeClassifier{}, &fakeComments{})

		got, err := svc.PredictMultiple(context.Background(), []string{"good", "bad", "good again"})
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "good", got[0].Text)
		assert.Equal(t, sentiment.Positive, got[0].Prediction.Label)
		assert.Equal(t, sentiment.Negative, got[1].Prediction.Label)
		assert.Equal(t, "good again", got[2].Text)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := newTestService(&fakeClassifier{}, &fakeComments{})

		_, err := svc.PredictMultiple(context.Background(), []string{})
		assertValidation(t, err, CodeEmptyBatch)
	})

	t.Run("item 37 of 40 too long rejects whole batch", func(t *testing.T) {
		clf := &fakeClassifier{}
		svc := newTestService(clf, &fakeComments{})

		texts := make([]string, 40)
		for i := range texts {
			texts[i] = "good"
		}
		texts[36] = strings.Repeat("x", 401)

		_, err := svc.PredictMultiple(context.Background(), texts)
		assertValidation(t, err, CodeBatchTextTooLong)
		assert.Empty(t, clf.calls)
	})

	t.Run("truncated to 250 before validation", func(t *testing.T) {
		clf := &fakeClassifier{}
		svc := newTestService(clf, &fakeComments{})

		texts := make([]string, 300)
		for i := range texts {
			texts[i] = "good"
		}
		// За пределами лимита, поэтому не влияет на валидацию
		texts[270] = strings.Repeat("x", 500)

		got, err := svc.PredictMultiple(context.Background(), texts)
		require.NoError(t, err)
		assert.Len(t, got, sentiment.MaxBatchSize)
		assert.Len(t, clf.calls, sentiment.MaxBatchSize)
	})

	t.Run("deterministic", func(t *testing.T) {
		svc := newTestService(&fakeClassifier{}, &fakeComments{})
		texts := []string{"good", "meh"}

		first, err := svc.PredictMultiple(context.Background(), texts)
		require.NoError(t, err)
		second, err := svc.PredictMultiple(context.Background(), texts)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestPredictFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		wantCode string
		wantLen  int
	}{
		{name: "txt", filename: "a.txt", data: "good\n\nbad\n", wantLen: 2},
		{name: "csv", filename: "a.csv", data: "id,text\n1,good\n2,\n", wantLen: 1},
		{name: "unsupported", filename: "a.pdf", data: "x", wantCode: CodeUnsupportedFileType},
		{name: "missing column", filename: "a.csv", data: "comment\ngood\n", wantCode: CodeMissingTextColumn},
		{name: "no text", filename: "a.txt", data: "\n  \n", wantCode: CodeNoTextInFile},
		{name: "invalid encoding", filename: "a.txt", data: "\xff\xfe", wantCode: CodeInvalidEncoding},
		{name: "too long line", filename: "a.txt", data: "good\n" + strings.Repeat("y", 401), wantCode: CodeBatchTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeClassifier{}, &fakeComments{})

			got, err := svc.PredictFile(context.Background(), tt.filename, []byte(tt.data))
			if tt.wantCode != "" {
				assertValidation(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestPredictFile_MissingColumnMessage(t *testing.T) {
	svc := newTestService(&fakeClassifier{}, &fakeComments{})

	_, err := svc.PredictFile(context.Background(), "a.csv", []byte("comment\nx\n"))
	ve := assertValidation(t, err, CodeMissingTextColumn)
	assert.Contains(t, ve.Message, "'text' column")
}

func TestFromYouTube(t *testing.T) {
	t.Run("comments classified", func(t *testing.T) {
		comments := &fakeComments{comments: []string{"good", "bad"}}
		svc := newTestService(&fakeClassifier{}, comments)

		got, err := svc.FromYouTube(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, sentiment.MaxBatchSize, comments.gotLimit)
		assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", comments.reference)
	})

	t.Run("no comments", func(t *testing.T) {
		svc := newTestService(&fakeClassifier{}, &fakeComments{})

		_, err := svc.FromYouTube(context.Background(), "dQw4w9WgXcQ")
		ve := assertValidation(t, err, CodeNoComments)
		assert.Equal(t, MessageNoComments, ve.Message)
	})

	t.Run("fetch error has same message", func(t *testing.T) {
		svc := newTestService(&fakeClassifier{}, &fakeComments{err: errors.New("network down")})

		_, err := svc.FromYouTube(context.Background(), "dQw4w9WgXcQ")
		ve := assertValidation(t, err, CodeCommentsUnavailable)
		assert.Equal(t, MessageNoComments, ve.Message)
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(CodeEmptyText, "text must not be empty")
	assert.Equal(t, "empty_text: text must not be empty", err.Error())
}
