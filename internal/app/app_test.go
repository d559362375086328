package app

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/buildinfo"
	"github.com/InQaaaaGit/thai_sentiment/internal/config"
	"github.com/InQaaaaGit/thai_sentiment/internal/models"
)

func lexiconConfig() *config.Config {
	cfg := config.Default()
	cfg.ModelBackend = config.BackendLexicon
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	a, err := NewApp(context.Background(), cfg, zap.NewNop(), buildinfo.NewInfo("v0.9.0", "", ""))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(context.Background(), lexiconConfig(), zap.NewNop(), buildinfo.DefaultInfo())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.router)
	assert.NotNil(t, a.logger)
	assert.NotNil(t, a.handler)
	assert.Equal(t, "lexicon", a.runtime.Name())

	server := a.GetServer()
	assert.Equal(t, ":8000", server.Addr)
	assert.NotNil(t, server.Handler)
}

func TestNewApp_Failures(t *testing.T) {
	t.Run("missing onnx model", func(t *testing.T) {
		cfg := config.Default()
		cfg.ModelPath = filepath.Join(t.TempDir(), "absent")

		_, err := NewApp(context.Background(), cfg, zap.NewNop(), buildinfo.DefaultInfo())
		assert.Error(t, err)
	})

	t.Run("broken labels file", func(t *testing.T) {
		cfg := lexiconConfig()
		cfg.LabelsFile = filepath.Join(t.TempDir(), "absent.yaml")

		_, err := NewApp(context.Background(), cfg, zap.NewNop(), buildinfo.DefaultInfo())
		assert.Error(t, err)
	})
}

func TestAppRoutes(t *testing.T) {
	srv := newTestServer(t, lexiconConfig())

	t.Run("root", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"My first Project":"Thai-Sentiment-Analysis","version":"v0.9.0"}`, string(body))
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		var health models.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "lexicon", health.Model)
	})

	t.Run("predict", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/sentiment/predict", `{"text":"This movie is great and wonderful!"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		var out models.SentimentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "positive", out.Sentiment)
		assert.Len(t, out.Probabilities, 3)
	})

	t.Run("predict too long", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/sentiment/predict", `{"text":"`+strings.Repeat("a", 401)+`"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Contains(t, out.Detail, "401")
	})

	t.Run("predict multiple", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/sentiment/predict_multiple", `{"texts":["I love it","I hate it"]}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out models.MultipleSentimentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out.Result, 2)
		assert.Equal(t, "positive", out.Result[0].Sentiment)
		assert.Equal(t, "negative", out.Result[1].Sentiment)
	})

	t.Run("predict file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "comments.txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte("I love it\n\nterrible service\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/sentiment/predict_file", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out models.MultipleSentimentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Len(t, out.Result, 2)
	})

	t.Run("youtube without credentials", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/sentiment/youtube", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "no comments found or video inaccessible", out.Detail)
		assert.Equal(t, "comments_unavailable", out.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/sentiment/predict", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("gzip response", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/sentiment/predict", strings.NewReader(`{"text":"ok"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := http.DefaultTransport.RoundTrip(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
		gz, err := gzip.NewReader(resp.Body)
		require.NoError(t, err)
		var out models.SentimentResponse
		require.NoError(t, json.NewDecoder(gz).Decode(&out))
		assert.Equal(t, "ok", out.Text)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `thai_sentiment_http_requests_total{method="POST",route="/sentiment/predict",status="200"}`)
		assert.Contains(t, string(body), `thai_sentiment_validation_errors_total{code="text_too_long"} 1`)
		assert.Contains(t, string(body), "thai_sentiment_predictions_total")
	})

	t.Run("metrics compressed once", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
		require.NoError(t, err)
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := http.DefaultTransport.RoundTrip(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
		gz, err := gzip.NewReader(resp.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(gz)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "# HELP"), "body must be plain exposition text after one gunzip")
	})
}

func TestAppRoutes_ThaiLabelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels:\n  positive: \"บวก\"\n"), 0o600))

	cfg := lexiconConfig()
	cfg.LabelLocale = config.LocaleTH
	cfg.LabelsFile = path
	srv := newTestServer(t, cfg)

	resp := postJSON(t, srv.URL+"/sentiment/predict", `{"text":"I love this, it is wonderful"}`)
	defer resp.Body.Close()

	var out models.SentimentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "บวก", out.Sentiment)
	assert.Equal(t, "เชิงลบ 😡", out.Probabilities[0].Label)
}
