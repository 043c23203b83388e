// Package storage сохраняет сгенерированные отчеты (локальная ФС или Supabase Storage).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ReportArchive сохраняет файл отчета и возвращает ссылку на него
type ReportArchive interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// ErrEmptyKey возвращается при пустом ключе объекта
var ErrEmptyKey = errors.New("empty key")

// ReportKey строит ключ объекта: reports/<YYYY-MM-DD>/<sessionID>/<filename>
func ReportKey(at time.Time, sessionID, filename string) string {
	return path.Join("reports", at.UTC().Format("2006-01-02"), sessionID, filename)
}

// cleanKey запрещает выход за пределы корня хранилища
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return cleaned, nil
}
