package checks

import (
	"context"
	"fmt"
	"path"
	"strings"

	"reminders/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ExportPrefix is where list exports live.
const ExportPrefix = "exports/lists/"

// StorageReport is the result of inspecting the exports bucket.
type StorageReport struct {
	Bucket       string   `json:"bucket"`
	BucketExists bool     `json:"bucket_exists"`
	Exports      int      `json:"exports"`
	Malformed    []string `json:"malformed"`
	Orphaned     []string `json:"orphaned"`
}

// Healthy reports whether nothing needs fixing.
func (r *StorageReport) Healthy() bool {
	return r.BucketExists && len(r.Malformed) == 0 && len(r.Orphaned) == 0
}

// ListExists reports whether a list id is still stored.
type ListExists func(ctx context.Context, id string) (bool, error)

// CheckStorage inspects the exports bucket. Keys under "exports/" that are
// not "exports/lists/<id>.json" are malformed; exports whose list no longer
// exists are orphaned.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, exists ListExists) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Malformed: []string{}, Orphaned: []string{}}

	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = ok
	if !ok {
		return report, nil
	}

	keys, err := storage.Keys(ctx, client, bucket, "exports/")
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		id, valid := exportListID(key)
		if !valid {
			report.Malformed = append(report.Malformed, key)
			continue
		}
		report.Exports++
		found, err := exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to look up list %s: %w", id, err)
		}
		if !found {
			report.Orphaned = append(report.Orphaned, key)
		}
	}
	return report, nil
}

func exportListID(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, ExportPrefix)
	if !ok || strings.Contains(rest, "/") || path.Ext(rest) != ".json" {
		return "", false
	}
	id := strings.TrimSuffix(rest, ".json")
	return id, id != ""
}

// FixStorage creates a missing bucket and removes orphaned and malformed
// exports. It returns the removed keys.
func FixStorage(ctx context.Context, client storage.Client, report *StorageReport, region string, logger *zap.Logger) ([]string, error) {
	if !report.BucketExists {
		if _, err := storage.EnsureBucket(ctx, client, report.Bucket, region); err != nil {
			return nil, err
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
		return []string{}, nil
	}

	removed := []string{}
	for _, key := range append(append([]string{}, report.Orphaned...), report.Malformed...) {
		if err := client.RemoveObject(ctx, report.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
			logger.Error("Failed to remove export", zap.String("key", key), zap.Error(err))
			return removed, err
		}
		logger.Info("Removed stale export", zap.String("key", key))
		removed = append(removed, key)
	}
	return removed, nil
}
