package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// GzipMiddleware обрабатывает сжатие и распаковку gzip
func GzipMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return gzipHandler(next, logger)
	}
}

func gzipHandler(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supportsGzip := strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
		isGzipped := strings.Contains(r.Header.Get("Content-Encoding"), "gzip")

		// Если запрос сжат, распаковываем его
		if isGzipped {
			if r.Body == nil || r.Body == http.NoBody {
				writeError(w, http.StatusBadRequest, "invalid_body", "empty request body")
				return
			}

			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_body", "malformed gzip body: "+err.Error())
				return
			}
			defer func() {
				if err := gz.Close(); err != nil {
					logger.Error("Error closing gzip request reader", zap.Error(err))
				}
			}()
			r.Body = gz
			r.Header.Del("Content-Encoding")
			r.Header.Del("Content-Length")
			r.ContentLength = -1

			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-gzip") {
				r.Header.Set("Content-Type", "application/json")
			}
		}

		if !supportsGzip {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gz := gzip.NewWriter(w)
		defer func() {
			if err := gz.Close(); err != nil {
				logger.Error("Error closing gzip response writer", zap.Error(err))
			}
		}()

		next.ServeHTTP(gzipResponseWriter{
			Writer:         gz,
			ResponseWriter: w,
		}, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter для сжатия ответа
type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

// Write записывает данные в сжатый поток
func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

// WriteHeader записывает код состояния HTTP ответа. Длина сжатого тела
// заранее неизвестна, поэтому Content-Length убирается.
func (w gzipResponseWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

// Header возвращает HTTP заголовки ответа
func (w gzipResponseWriter) Header() http.Header {
	return w.ResponseWriter.Header()
}
