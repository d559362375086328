package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/InQaaaaGit/thai_sentiment/internal/models"
)

// writeError отдает ошибку в том же формате, что и обработчики API
func writeError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Detail: detail, Code: code})
}
