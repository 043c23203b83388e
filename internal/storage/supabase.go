package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// supabaseClient — часть storage_go.Client, которая нужна архиву
type supabaseClient interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketId string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseArchive хранит отчеты в бакете Supabase Storage
type SupabaseArchive struct {
	client supabaseClient
	bucket string
}

// NewSupabaseArchive создает клиент Supabase Storage.
// projectURL — адрес проекта (https://<ref>.supabase.co), key — service key.
func NewSupabaseArchive(projectURL, key, bucket string) *SupabaseArchive {
	client := storage_go.NewClient(strings.TrimRight(projectURL, "/")+"/storage/v1", key, nil)
	return &SupabaseArchive{client: client, bucket: bucket}
}

// Put загружает файл (с перезаписью) и возвращает публичную ссылку
func (s *SupabaseArchive) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := true
	_, err = s.client.UploadFile(s.bucket, key, r, storage_go.FileOptions{ContentType: &contentType, Upsert: &upsert})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}

	response := s.client.GetPublicUrl(s.bucket, key)
	return response.SignedURL, nil
}
