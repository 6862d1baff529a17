// Package minio implements blobstore.BlobStore on the native MinIO client.
// It works against MinIO itself and other S3-compatible stores (Ceph,
// Garage, SeaweedFS) without pulling in the AWS SDK.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "indexes/festivals")
//	ix, err := lexgo.Load[Meta](ctx, store)
//
// Create streams through an io.Pipe into a single PutObject, so artifacts
// of unknown size upload without buffering in memory.
package minio
