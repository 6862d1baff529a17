// Package blobstore abstracts the storage that holds persisted index
// artifacts: model blobs, matrix blobs, manifests, and the CURRENT pointer.
//
// The persistence layer talks only to the BlobStore interface, so an index
// saves and loads the same way against all backends. Four implementations
// ship with the module:
//
//   - MemoryStore, for tests and throwaway indexes
//   - LocalStore, local filesystem with mmap reads and atomic renames
//   - s3.Store, Amazon S3 with ranged GETs and multipart uploads
//   - minio.Store, MinIO and other S3-compatible stores
//
// Custom backends implement BlobStore plus, optionally, Mappable for
// zero-copy reads. Put must be atomic: a reader either sees the previous
// content or the whole new blob. Generation publishing relies on that
// guarantee for the CURRENT pointer.
package blobstore
