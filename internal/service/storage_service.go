package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectMirror copies a data file that was written locally to remote storage.
type ObjectMirror interface {
	Mirror(ctx context.Context, name, localPath, contentType string) (string, error)
}

type MinioMirror struct {
	Bucket string
	Client *minio.Client
}

func NewMinioMirror(cfg *config.StorageConfig) (*MinioMirror, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioMirror{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (m *MinioMirror) Mirror(ctx context.Context, name, localPath, contentType string) (string, error) {
	_, err := m.Client.FPutObject(ctx, m.Bucket, name, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return "/" + m.Bucket + "/" + name, nil
}

type OSSMirror struct {
	Endpoint string
	Bucket   string
	Client   *oss.Client
}

func NewOSSMirror(cfg *config.StorageConfig) (*OSSMirror, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSMirror{Endpoint: cfg.OSSEndpoint, Bucket: cfg.OSSBucket, Client: client}, nil
}

func (m *OSSMirror) Mirror(ctx context.Context, name, localPath, contentType string) (string, error) {
	bucket, err := m.Client.Bucket(m.Bucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObjectFromFile(name, localPath, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.%s/%s", m.Bucket, m.Endpoint, name), nil
}

// StorageService manages the college-info data directory. The local copy is the
// one the answer sources read; a configured mirror only receives copies.
type StorageService struct {
	Dir    string
	Mirror ObjectMirror
}

func NewStorageService(cfg *config.Config) *StorageService {
	s := &StorageService{Dir: cfg.CollegeData.Dir}

	var err error
	switch cfg.Storage.Type {
	case util.StorageMinio:
		s.Mirror, err = NewMinioMirror(&cfg.Storage)
	case util.StorageOSS:
		s.Mirror, err = NewOSSMirror(&cfg.Storage)
	}
	if err != nil {
		logger.Log.Error("Failed to init storage mirror, keeping local files only",
			zap.String("type", cfg.Storage.Type), zap.Error(err))
		s.Mirror = nil
	}
	return s
}

// ListFiles returns the data file names in sorted order.
func (s *StorageService) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// SaveDataFile writes reader to the data directory under a sanitized name and
// mirrors it when a remote store is configured. Mirror failures are logged only.
func (s *StorageService) SaveDataFile(ctx context.Context, name string, reader io.Reader, contentType string) (string, error) {
	safe, err := util.SafeDataFileName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}

	dst := filepath.Join(s.Dir, safe)
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", err
	}

	if s.Mirror != nil {
		if url, err := s.Mirror.Mirror(ctx, safe, dst, contentType); err != nil {
			logger.Log.Warn("Failed to mirror data file", zap.String("file", safe), zap.Error(err))
		} else {
			logger.Log.Info("Data file mirrored", zap.String("file", safe), zap.String("url", url))
		}
	}
	return safe, nil
}
