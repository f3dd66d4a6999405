// Package storage talks to the S3 compatible object store that receives list
// exports.
//
// Client is a narrow interface over the MinIO client so services can be
// tested with core/storage/mocks. EnsureBucket, PutJSON and Keys are the
// helpers the export and integrity features build on.
//
//	client, err := storage.NewClient(cfg.Storage)
//	_, err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
//	_, err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "exports/lists/42.json", doc)
package storage
