// Package storage uploads job description files to an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/buildfastwithai/jd-qna/internal/config"
)

// Store wraps a minio client with the bucket and key layout used for uploads.
type Store struct {
	client *minio.Client
	cfg    config.StorageConfig
}

// New builds the client from config. It does not touch the network; bucket
// existence is checked lazily on first upload.
func New(cfg config.StorageConfig) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Store{client: client, cfg: cfg}, nil
}

// objectName builds a collision-free key: folder prefix plus random hex with
// the original extension preserved.
func (s *Store) objectName(filename string) (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate object name: %w", err)
	}
	name := hex.EncodeToString(b[:]) + strings.ToLower(filepath.Ext(filename))
	if s.cfg.Folder != "" {
		name = path.Join(s.cfg.Folder, name)
	}
	return name, nil
}

// UploadResult describes a stored object.
type UploadResult struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
}

// Upload stores the file and returns its object name and public URL.
func (s *Store) Upload(ctx context.Context, filename string, data []byte, contentType string) (*UploadResult, error) {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	name, err := s.objectName(filename)
	if err != nil {
		return nil, err
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	return &UploadResult{ObjectName: name, URL: s.PublicURL(name), Size: info.Size}, nil
}

// PublicURL returns the externally reachable URL for an object. When a public
// base URL is configured it takes precedence over the raw endpoint.
func (s *Store) PublicURL(objectName string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + s.cfg.Bucket + "/" + objectName
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName)
}
