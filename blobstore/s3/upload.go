package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/lexgo/internal/hash"
)

// UploadConfig tunes how Create pushes artifacts to S3.
type UploadConfig struct {
	// PartSize is the multipart part size. Matrix blobs routinely run to
	// hundreds of megabytes, so the default is 8MB rather than the SDK's 5.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel. Default 5.
	Concurrency int

	// EnableChecksum adds CRC32C validation on the wire. Default true.
	EnableChecksum bool

	// LeavePartsOnError keeps the parts of a failed multipart upload
	// around for inspection instead of aborting them.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns production defaults.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 * 1024 * 1024,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// wireCRC32C renders a checksum the way the S3 API wants it: the big-endian
// bytes of the sum, base64 encoded.
func wireCRC32C(data []byte) string {
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], hash.CRC32C(data))

	return base64.StdEncoding.EncodeToString(sum[:])
}

// streamingWritableBlob feeds Write calls through a pipe into a background
// multipart upload. The object exists only once Close returns nil.
type streamingWritableBlob struct {
	pw   *io.PipeWriter
	done chan error

	once sync.Once
	err  error
}

func newStreamingWritableBlob(ctx context.Context, uploader *manager.Uploader, bucket, key string, enableChecksum bool) *streamingWritableBlob {
	pr, pw := io.Pipe()

	blob := &streamingWritableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		input := &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		}

		if enableChecksum {
			input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
		}

		_, err := uploader.Upload(ctx, input)

		// Fail pending writes immediately instead of at Close.
		_ = pr.CloseWithError(err)

		blob.done <- err
	}()

	return blob
}

// Write blocks until the uploader consumes p. After Close, or after the
// upload dies, it returns the pipe's error.
func (b *streamingWritableBlob) Write(p []byte) (int, error) {
	return b.pw.Write(p)
}

// Close signals EOF to the uploader and waits for the upload to finish.
// It is idempotent; later calls return the first result.
func (b *streamingWritableBlob) Close() error {
	b.once.Do(func() {
		if err := b.pw.Close(); err != nil {
			b.err = err
			return
		}

		b.err = <-b.done
	})

	return b.err
}

// Sync is a no-op. Durability is decided by the upload completing at Close.
func (b *streamingWritableBlob) Sync() error {
	return nil
}

// putWithChecksum writes a small blob in one request with wire validation.
func putWithChecksum(ctx context.Context, client Client, bucket, key string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(bucket),
		Key:            aws.String(key),
		Body:           bytes.NewReader(data),
		ContentLength:  aws.Int64(int64(len(data))),
		ChecksumCRC32C: aws.String(wireCRC32C(data)),
	})

	return err
}
