// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "indexes/festivals")
//
//	index, err := lexgo.Load[Meta](ctx, store)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large artifacts
//   - CRC32C wire checksums on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// For concurrent writers, DDBCommitStore layers DynamoDB conditional writes
// over the CURRENT pointer.
package s3
