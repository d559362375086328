package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Logits []float64 `json:"logits"`
}

// Remote рантайм поверх внешнего сервера инференса.
// Сервер принимает {"text": "..."} и возвращает {"logits": [neg, neu, pos]}.
// Повторных попыток нет: ошибка запроса сразу возвращается вызывающему.
type Remote struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemote создает клиент сервера инференса
func NewRemote(endpoint string, timeout time.Duration, logger *zap.Logger) *Remote {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		logger:   logger,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Logits отправляет текст на сервер инференса
func (r *Remote) Logits(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Error("Error closing inference response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 512))
		if err != nil {
			return nil, fmt.Errorf("inference server returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("inference server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Logits, nil
}

// Name возвращает имя бэкенда
func (r *Remote) Name() string {
	return "remote"
}

// Close закрывает простаивающие соединения клиента
func (r *Remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}
