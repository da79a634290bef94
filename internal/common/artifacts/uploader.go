// internal/common/artifacts/uploader.go
package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"archai-workers/internal/common/config"
	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"
)

const defaultRegion = "us-east-1"

// ObjectStore is the part of *minio.Client the uploader uses.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type object struct {
	name        string
	contentType string
	content     []byte
}

// Uploader writes the handoff package of a completed run under <runId>/.
type Uploader struct {
	client   ObjectStore
	bucket   string
	logger   logger.Logger
	initOnce sync.Once
	initErr  error
}

func NewMinioUploader(cfg config.MinioConfig, log logger.Logger) (*Uploader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return NewUploader(client, cfg.Bucket, log), nil
}

func NewUploader(client ObjectStore, bucket string, log logger.Logger) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		logger: log.WithFields(map[string]interface{}{"component": "artifacts", "bucket": bucket}),
	}
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = err
			return
		}
		if !exists {
			u.initErr = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: defaultRegion})
		}
	})
	return u.initErr
}

// Upload stores the package files and returns their object keys. Halted runs
// have no package and upload nothing.
func (u *Uploader) Upload(ctx context.Context, bp *models.Blueprint) ([]string, error) {
	if bp.Halted() {
		return nil, nil
	}
	if err := u.ensureBucket(ctx); err != nil {
		return nil, apperrors.NewArtifactUploadError(u.bucket, err)
	}

	objects, err := packageObjects(bp)
	if err != nil {
		return nil, apperrors.NewArtifactUploadError(bp.RunID, err)
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		key := objectKey(bp.RunID, obj.name)
		_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(obj.content), int64(len(obj.content)), minio.PutObjectOptions{
			ContentType: obj.contentType,
		})
		if err != nil {
			return keys, apperrors.NewArtifactUploadError(key, err)
		}
		keys = append(keys, key)
	}

	u.logger.Debug("handoff package uploaded", map[string]interface{}{
		"runId":   bp.RunID,
		"objects": len(keys),
	})
	return keys, nil
}

func (u *Uploader) Name() string { return "artifacts" }

func (u *Uploader) Accept(ctx context.Context, bp *models.Blueprint) error {
	_, err := u.Upload(ctx, bp)
	return err
}

func packageObjects(bp *models.Blueprint) ([]object, error) {
	blueprint, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return nil, err
	}
	handoff, err := json.MarshalIndent(bp.HandoffSpec, "", "  ")
	if err != nil {
		return nil, err
	}

	objects := []object{
		{name: "blueprint.json", contentType: "application/json", content: blueprint},
		{name: "handoff.json", contentType: "application/json", content: handoff},
	}
	if bp.ShipSpec.CIPipeline != "" {
		objects = append(objects, object{name: "ci/pipeline.yml", contentType: "application/yaml", content: []byte(bp.ShipSpec.CIPipeline)})
	}
	if bp.ShipSpec.InfraManifest != "" {
		objects = append(objects, object{name: "infra/main.tf", contentType: "text/plain", content: []byte(bp.ShipSpec.InfraManifest)})
	}
	return objects, nil
}

func objectKey(runID, name string) string {
	return strings.TrimSpace(runID) + "/" + strings.TrimLeft(name, "/")
}
