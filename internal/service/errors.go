package service

import "fmt"

// Коды ошибок валидации, которые уходят клиенту в поле code
const (
	CodeEmptyText           = "empty_text"
	CodeTextTooLong         = "text_too_long"
	CodeEmptyBatch          = "empty_batch"
	CodeBatchTextTooLong    = "batch_text_too_long"
	CodeUnsupportedFileType = "unsupported_file_type"
	CodeMissingTextColumn   = "missing_text_column"
	CodeNoTextInFile        = "no_text_in_file"
	CodeInvalidEncoding     = "invalid_encoding"
	CodeInvalidUpload       = "invalid_upload"
	CodeNoComments          = "no_comments"
	CodeCommentsUnavailable = "comments_unavailable"
	CodeInvalidBody         = "invalid_body"
)

// MessageNoComments общий ответ для пустого результата и ошибки загрузки комментариев
const MessageNoComments = "no comments found or video inaccessible"

// ValidationError входные данные клиента нарушают ограничение.
// Всегда отдается клиенту как 400.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError создает ошибку валидации
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}
