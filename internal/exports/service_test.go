package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"mrp_backend/internal/adapters/storage"
	"mrp_backend/platform/logger"
)

type fakeSource struct {
	rows []ProductMaterials
	err  error
}

func (f *fakeSource) ListProductMaterials(_ context.Context) ([]ProductMaterials, error) {
	return f.rows, f.err
}

type fakeStorage struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeStorage) UploadObject(_ context.Context, bucket, key, contentType string, reader io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = buf.Bytes()
	f.types[bucket+"/"+key] = contentType
	return nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://example.test/" + bucket + "/" + key, FileKey: key}, nil
}

func (f *fakeStorage) EnsureBucketExists(_ context.Context, bucket string) error {
	f.buckets[bucket] = true
	return nil
}

func TestExportMaterialsSnapshot(t *testing.T) {
	productID := uuid.New()
	source := &fakeSource{rows: []ProductMaterials{
		{ProductID: productID, ProductName: "Desk", Materials: []byte(`{"Wood":4,"Screws":16}`)},
	}}
	store := newFakeStorage()

	svc := NewService(source, store, "material-exports", logger.New("test"))

	key, err := svc.ExportMaterialsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("ExportMaterialsSnapshot() error = %v", err)
	}
	if key != SnapshotObjectKey {
		t.Errorf("key = %q, want %q", key, SnapshotObjectKey)
	}
	if !store.buckets["material-exports"] {
		t.Error("bucket was not ensured")
	}

	data, ok := store.objects["material-exports/"+SnapshotObjectKey]
	if !ok {
		t.Fatal("artifact not uploaded")
	}
	if store.types["material-exports/"+SnapshotObjectKey] != "application/json" {
		t.Errorf("content type = %q, want application/json", store.types["material-exports/"+SnapshotObjectKey])
	}

	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want one product", entries)
	}
	entry := entries[0]
	if entry.ProductID != productID.String() || entry.ProductName != "Desk" {
		t.Errorf("entry = %+v, want Desk with id %s", entry, productID)
	}

	var materials map[string]int64
	if err := json.Unmarshal(entry.Materials, &materials); err != nil {
		t.Fatalf("materials not valid JSON: %v", err)
	}
	if materials["Wood"] != 4 || materials["Screws"] != 16 {
		t.Errorf("materials = %v, want Wood:4 Screws:16", materials)
	}
}

func TestExportHandlesEmptyMaterials(t *testing.T) {
	source := &fakeSource{rows: []ProductMaterials{
		{ProductID: uuid.New(), ProductName: "Blank", Materials: nil},
	}}
	store := newFakeStorage()
	svc := NewService(source, store, "material-exports", logger.New("test"))

	if _, err := svc.ExportMaterialsSnapshot(context.Background()); err != nil {
		t.Fatalf("ExportMaterialsSnapshot() error = %v", err)
	}

	data := store.objects["material-exports/"+SnapshotObjectKey]
	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if string(entries[0].Materials) != "{}" {
		t.Errorf("materials = %s, want {}", entries[0].Materials)
	}
}

func TestExportPropagatesSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	store := newFakeStorage()
	svc := NewService(source, store, "material-exports", logger.New("test"))

	if _, err := svc.ExportMaterialsSnapshot(context.Background()); err == nil {
		t.Fatal("ExportMaterialsSnapshot() with failing source, want error")
	}
	if len(store.objects) != 0 {
		t.Error("artifact uploaded despite source failure")
	}
}
