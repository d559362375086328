// Package extract достает список текстов из загруженного пользователем файла.
package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TextColumn имя обязательной колонки табличного файла
const TextColumn = "text"

var (
	// ErrUnsupportedFileType тип файла не поддерживается
	ErrUnsupportedFileType = errors.New("unsupported file type, use .txt, .csv or .tsv")
	// ErrMissingTextColumn в табличном файле нет колонки text
	ErrMissingTextColumn = errors.New("file must contain a 'text' column")
	// ErrInvalidEncoding содержимое не является UTF-8
	ErrInvalidEncoding = errors.New("file must be UTF-8 encoded")
	// ErrMalformed табличный файл не удалось разобрать
	ErrMalformed = errors.New("malformed tabular file")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naValues значения, которые считаются пропуском в табличных файлах
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Supported сообщает, умеет ли пакет читать файл с таким именем
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".csv", ".tsv":
		return true
	}
	return false
}

// Extract возвращает непустые тексты из файла. Тип определяется по
// расширению имени без учета регистра.
func Extract(filename string, data []byte) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !Supported(filename) {
		return nil, ErrUnsupportedFileType
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	switch ext {
	case ".csv":
		return fromTable(data, ',')
	case ".tsv":
		return fromTable(data, '\t')
	default:
		return fromLines(data), nil
	}
}

// isLineBreak разделители строк: \n, \r, \v, \f, \x1c-\x1e, NEL, LS и PS
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func fromLines(data []byte) []string {
	lines := strings.FieldsFunc(string(data), isLineBreak)
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	return texts
}

func fromTable(data []byte, comma rune) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingTextColumn
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	column := -1
	for i, name := range header {
		if strings.TrimSpace(name) == TextColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, ErrMissingTextColumn
	}

	var texts []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if column >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[column])
		if _, na := naValues[value]; na {
			continue
		}
		texts = append(texts, value)
	}
	return texts, nil
}
