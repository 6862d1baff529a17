package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/lexgo/blobstore"
)

// currentPointerName is the blob name whose reads and writes go through
// the DynamoDB commit log instead of S3.
const currentPointerName = "CURRENT"

// ErrConcurrentModification is returned when another writer published a
// generation between this writer's read and commit.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// DDBClient is the subset of the DynamoDB API the commit store uses.
// *dynamodb.Client satisfies it; tests substitute a mock.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DDBCommitStore layers a DynamoDB commit log over an S3 store so that
// concurrent writers publish safely.
//
// S3 alone cannot compare-and-swap the CURRENT pointer, so two fitters
// publishing at once could silently overwrite each other. Here artifacts and
// manifests still land in S3, but the pointer advance is a DynamoDB
// conditional write: each commit inserts version latest+1 with
// attribute_not_exists, and the loser of a race gets
// ErrConcurrentModification instead of clobbering the winner.
//
// Table schema:
//   - Partition key: base_uri (string), the s3://bucket/prefix of the index
//   - Sort key: version (number), monotonically increasing
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name lexgo-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	s3Store   *Store
	ddbClient DDBClient
	tableName string
	baseURI   string
}

// NewDDBCommitStore creates a commit store over s3Store. baseURI is the
// partition key, conventionally "s3://bucket/prefix".
func NewDDBCommitStore(s3Store *Store, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		s3Store:   s3Store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// commit is one row of the commit log.
type commit struct {
	version  uint64
	manifest string
}

// Open opens a blob for reading. The CURRENT pointer is answered from the
// commit log; everything else comes from S3.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != currentPointerName {
		return s.s3Store.Open(ctx, name)
	}

	latest, err := s.latestCommit(ctx)
	if err != nil {
		return nil, err
	}
	if latest.version == 0 {
		return nil, blobstore.ErrNotFound
	}

	return &pointerBlob{content: []byte(latest.manifest)}, nil
}

// Put writes a blob. Writing CURRENT appends to the commit log.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name == currentPointerName {
		return s.publish(ctx, string(data))
	}
	return s.s3Store.Put(ctx, name, data)
}

// Create, Delete, and List pass straight through to S3.

func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return s.s3Store.Create(ctx, name)
}

func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	return s.s3Store.Delete(ctx, name)
}

func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.s3Store.List(ctx, prefix)
}

// latestCommit returns the newest row of the commit log, or a zero commit
// when nothing has been published yet.
func (s *DDBCommitStore) latestCommit(ctx context.Context) (commit, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // newest first
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return commit{}, fmt.Errorf("query commit log: %w", err)
	}
	if len(resp.Items) == 0 {
		return commit{}, nil
	}

	return parseCommit(resp.Items[0])
}

func parseCommit(item map[string]types.AttributeValue) (commit, error) {
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return commit{}, errors.New("commit log row has no numeric version")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return commit{}, fmt.Errorf("parse commit version: %w", err)
	}

	pathAttr, ok := item["manifest_path"].(*types.AttributeValueMemberS)
	if !ok {
		return commit{}, errors.New("commit log row has no manifest_path")
	}

	return commit{version: version, manifest: pathAttr.Value}, nil
}

// publish appends manifestPath as the next version. The conditional write
// fails when a racer already took that version.
func (s *DDBCommitStore) publish(ctx context.Context, manifestPath string) error {
	latest, err := s.latestCommit(ctx)
	if err != nil {
		return err
	}

	next := latest.version + 1

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: s.baseURI},
			"version":       &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"manifest_path": &types.AttributeValueMemberS{Value: manifestPath},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("record commit: %w", err)
	}

	return nil
}

// pointerBlob serves the CURRENT pointer content from memory.
type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error {
	return nil
}

func (b *pointerBlob) Size() int64 {
	return int64(len(b.content))
}

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= int64(len(b.content)) {
		return 0, io.EOF
	}

	n := copy(p, b.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= int64(len(b.content)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	end := off + length
	if end > int64(len(b.content)) {
		end = int64(len(b.content))
	}

	return io.NopCloser(bytes.NewReader(b.content[off:end])), nil
}
