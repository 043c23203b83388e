package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// FSArchive хранит отчеты на локальном диске (разработка и демо-режим)
type FSArchive struct{ base string }

// NewFSArchive создает каталог base, если его нет
func NewFSArchive(base string) (*FSArchive, error) {
	if base == "" {
		base = "./data/reports"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSArchive{base: base}, nil
}

// Put записывает файл и возвращает file:// ссылку
func (s *FSArchive) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(s.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
