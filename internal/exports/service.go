package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mrp_backend/internal/adapters/storage"
	"mrp_backend/platform/logger"
)

// SnapshotObjectKey is the fixed artifact key. Every export overwrites the
// previous one so the object always reflects the latest product set.
const SnapshotObjectKey = "products_materials.json"

const snapshotContentType = "application/json"

// ProductMaterialsSource supplies the snapshot rows.
type ProductMaterialsSource interface {
	ListProductMaterials(ctx context.Context) ([]ProductMaterials, error)
}

// snapshotEntry is one product in the exported artifact. The artifact is a
// top-level JSON array of these; downstream consumers depend on the
// snake_case field names.
type snapshotEntry struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Materials   json.RawMessage `json:"materials"`
}

// Service rebuilds the materials snapshot artifact and writes it to object
// storage. Storage is a write-only sink from the engine's perspective;
// nothing in the workflow ever reads the artifact back.
type Service struct {
	source  ProductMaterialsSource
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
}

// NewService creates a new exports service.
func NewService(source ProductMaterialsSource, store storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		source:  source,
		storage: store,
		bucket:  bucket,
		log:     log,
	}
}

// ExportMaterialsSnapshot rebuilds the full artifact and uploads it,
// returning the object key. The bucket check and the table read are
// independent, so they run concurrently.
func (s *Service) ExportMaterialsSnapshot(ctx context.Context) (string, error) {
	var rows []ProductMaterials

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.storage.EnsureBucketExists(gctx, s.bucket)
	})
	g.Go(func() error {
		var err error
		rows, err = s.source.ListProductMaterials(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("prepare snapshot export: %w", err)
	}

	entries := make([]snapshotEntry, len(rows))
	for i, row := range rows {
		materials := row.Materials
		if len(materials) == 0 {
			materials = []byte("{}")
		}
		entries[i] = snapshotEntry{
			ProductID:   row.ProductID.String(),
			ProductName: row.ProductName,
			Materials:   json.RawMessage(materials),
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	err = s.storage.UploadObject(ctx, s.bucket, SnapshotObjectKey, snapshotContentType,
		bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	s.log.Info("materials snapshot uploaded",
		"bucket", s.bucket, "objectKey", SnapshotObjectKey, "products", len(rows))
	return SnapshotObjectKey, nil
}

// DownloadURL returns a presigned URL for the current artifact.
func (s *Service) DownloadURL(ctx context.Context) (*storage.PresignedURL, error) {
	return s.storage.GenerateDownloadURL(ctx, s.bucket, SnapshotObjectKey)
}
