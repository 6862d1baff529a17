package lexgo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lexgo/analysis"
	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/internal/compress"
	"github.com/hupe1980/lexgo/internal/hash"
	"github.com/hupe1980/lexgo/resource"
	"github.com/hupe1980/lexgo/tfidf"
)

const (
	// currentPointerName is the blob readers follow to find the live
	// generation. It holds the name of that generation's manifest.
	currentPointerName = "CURRENT"

	manifestPrefix = "MANIFEST-"
	modelPrefix    = "model-"
	matrixPrefix   = "matrix-"

	persistVersion    = 1
	blobFormatVersion = 1

	modelMagic  = "LXM1"
	matrixMagic = "LXX1"
)

func manifestName(gen uint64) string { return fmt.Sprintf("%s%08d.json", manifestPrefix, gen) }
func modelName(gen uint64) string    { return fmt.Sprintf("%s%08d.bin", modelPrefix, gen) }
func matrixName(gen uint64) string   { return fmt.Sprintf("%s%08d.bin", matrixPrefix, gen) }

// generationOf extracts the generation number from an artifact name.
func generationOf(name string) (uint64, bool) {
	var digits string

	switch {
	case strings.HasPrefix(name, manifestPrefix) && strings.HasSuffix(name, ".json"):
		digits = strings.TrimSuffix(strings.TrimPrefix(name, manifestPrefix), ".json")
	case strings.HasPrefix(name, modelPrefix) && strings.HasSuffix(name, ".bin"):
		digits = strings.TrimSuffix(strings.TrimPrefix(name, modelPrefix), ".bin")
	case strings.HasPrefix(name, matrixPrefix) && strings.HasSuffix(name, ".bin"):
		digits = strings.TrimSuffix(strings.TrimPrefix(name, matrixPrefix), ".bin")
	default:
		return 0, false
	}

	gen, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return gen, true
}

// manifestBlob describes one stored artifact. Size and CRC32C refer to the
// stored (possibly compressed) bytes, so integrity is checked before any
// decompression happens.
type manifestBlob struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	CRC32C      uint32 `json:"crc32c"`
	Compression string `json:"compression"`
}

// manifest is the root document of one index generation. It is always plain
// JSON so operators can inspect it regardless of the configured codec.
type manifest struct {
	Version    int          `json:"version"`
	Generation uint64       `json:"generation"`
	CreatedAt  time.Time    `json:"created_at"`
	Codec      string       `json:"codec"`
	DocCount   int          `json:"doc_count"`
	VocabSize  int          `json:"vocab_size"`
	Model      manifestBlob `json:"model"`
	Matrix     manifestBlob `json:"matrix"`
}

// persistedModel is the codec payload of the model artifact: the fitted
// configuration, the frozen vocabulary and IDF weights, and the documents.
// The document-term matrix lives in its own binary artifact.
type persistedModel[T any] struct {
	MinDF     int           `json:"min_df"`
	MaxDF     float64       `json:"max_df"`
	NGramMin  int           `json:"ngram_min"`
	NGramMax  int           `json:"ngram_max"`
	StopWords []string      `json:"stop_words"`
	Terms     []string      `json:"terms"`
	IDF       []float64     `json:"idf"`
	Docs      []Document[T] `json:"docs"`
}

// Save persists the fitted index to the store as a new generation.
//
// A generation consists of a model artifact (configuration, vocabulary, IDF,
// documents), a matrix artifact, and a manifest recording sizes and CRC32C
// checksums of both. The CURRENT pointer is updated last, so a crash mid-save
// leaves the previous generation intact and loadable. After a successful
// save, artifacts of older generations are deleted best-effort.
//
// Save does not mutate the index and may run concurrently with searches.
func (ix *Index[T]) Save(ctx context.Context, store blobstore.BlobStore) error {
	start := time.Now()
	gen, err := ix.save(ctx, store)
	duration := time.Since(start)

	ix.metrics.RecordSave(duration, err)
	ix.logger.LogSave(ctx, gen, err)

	return err
}

func (ix *Index[T]) save(ctx context.Context, store blobstore.BlobStore) (uint64, error) {
	ct, err := ix.compression.blockType()
	if err != nil {
		return 0, err
	}

	gen, err := nextGeneration(ctx, store)
	if err != nil {
		return 0, err
	}

	modelPlain, err := ix.encodeModel()
	if err != nil {
		return gen, err
	}

	model, err := writeArtifact(ctx, store, modelName(gen), modelPlain, ct, ix.resources)
	if err != nil {
		return gen, err
	}

	matrix, err := writeArtifact(ctx, store, matrixName(gen), encodeMatrix(ix.matrix), ct, ix.resources)
	if err != nil {
		return gen, err
	}

	mf := manifest{
		Version:    persistVersion,
		Generation: gen,
		CreatedAt:  time.Now().UTC(),
		Codec:      ix.codec.Name(),
		DocCount:   len(ix.docs),
		VocabSize:  ix.vec.Vocabulary().Len(),
		Model:      model,
		Matrix:     matrix,
	}

	data, err := json.Marshal(mf)
	if err != nil {
		return gen, fmt.Errorf("encode manifest: %w", err)
	}

	name := manifestName(gen)
	if err := store.Put(ctx, name, data); err != nil {
		return gen, fmt.Errorf("write manifest: %w", err)
	}

	// Readers follow CURRENT, so this write publishes the generation.
	if err := store.Put(ctx, currentPointerName, []byte(name)); err != nil {
		return gen, fmt.Errorf("update current pointer: %w", err)
	}

	if ix.resources.TryAcquireBackground() {
		defer ix.resources.ReleaseBackground()
		removeStaleGenerations(ctx, store, gen)
	}

	return gen, nil
}

// SaveToDir persists the index into a local directory, creating it if
// needed.
func (ix *Index[T]) SaveToDir(ctx context.Context, dir string) error {
	store, err := blobstore.NewLocalStore(dir)
	if err != nil {
		return err
	}

	return ix.Save(ctx, store)
}

func nextGeneration(ctx context.Context, store blobstore.BlobStore) (uint64, error) {
	names, err := store.List(ctx, manifestPrefix)
	if err != nil {
		return 0, fmt.Errorf("list manifests: %w", err)
	}

	var latest uint64
	for _, name := range names {
		if gen, ok := generationOf(name); ok && gen > latest {
			latest = gen
		}
	}

	return latest + 1, nil
}

// removeStaleGenerations deletes artifacts older than the keep generation.
// Best effort: a failed delete leaves an unreferenced blob behind, and the
// next save tries again.
func removeStaleGenerations(ctx context.Context, store blobstore.BlobStore, keep uint64) {
	names, err := store.List(ctx, "")
	if err != nil {
		return
	}

	for _, name := range names {
		if gen, ok := generationOf(name); ok && gen < keep {
			_ = store.Delete(ctx, name)
		}
	}
}

func (ix *Index[T]) encodeModel() ([]byte, error) {
	aopts := ix.vec.Analyzer().Options()

	pm := persistedModel[T]{
		MinDF:     ix.vec.MinDF(),
		MaxDF:     ix.vec.MaxDF(),
		NGramMin:  aopts.NGramMin,
		NGramMax:  aopts.NGramMax,
		StopWords: aopts.StopWords,
		Terms:     ix.vec.Vocabulary().Terms(),
		IDF:       ix.vec.IDF(),
		Docs:      ix.docs,
	}

	payload, err := ix.codec.Marshal(pm)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	name := ix.codec.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("codec name %q too long", name)
	}

	buf := make([]byte, 0, 4+2+1+len(name)+len(payload))
	buf = append(buf, modelMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, blobFormatVersion)
	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	buf = append(buf, payload...)

	return buf, nil
}

// parseModelHeader splits a model blob into its codec name and payload.
func parseModelHeader(data []byte) (string, []byte, error) {
	if len(data) < 7 {
		return "", nil, corrupt("model blob truncated", nil)
	}

	if string(data[:4]) != modelMagic {
		return "", nil, corrupt("bad model magic", nil)
	}

	if v := binary.LittleEndian.Uint16(data[4:6]); v != blobFormatVersion {
		return "", nil, corrupt(fmt.Sprintf("unsupported model format version %d", v), nil)
	}

	nameLen := int(data[6])
	if len(data) < 7+nameLen {
		return "", nil, corrupt("model blob truncated", nil)
	}

	return string(data[7 : 7+nameLen]), data[7+nameLen:], nil
}

// encodeMatrix serializes the CSR matrix: a fixed header (magic, format
// version, rows, cols, nnz), then row offsets, column indices, and values,
// all little-endian.
func encodeMatrix(m *tfidf.Matrix) []byte {
	rows := m.Rows()
	nnz := m.NNZ()

	buf := make([]byte, 0, 22+(rows+1)*8+nnz*12)
	buf = append(buf, matrixMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, blobFormatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(rows))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Cols()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(nnz))

	offset := uint64(0)
	buf = binary.LittleEndian.AppendUint64(buf, offset)
	for i := 0; i < rows; i++ {
		offset += uint64(m.Row(i).NNZ())
		buf = binary.LittleEndian.AppendUint64(buf, offset)
	}

	for i := 0; i < rows; i++ {
		for _, j := range m.Row(i).Indices {
			buf = binary.LittleEndian.AppendUint32(buf, j)
		}
	}

	for i := 0; i < rows; i++ {
		for _, x := range m.Row(i).Values {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
	}

	return buf
}

func decodeMatrix(data []byte) (*tfidf.Matrix, error) {
	const headerSize = 22

	if len(data) < headerSize {
		return nil, corrupt("matrix blob truncated", nil)
	}

	if string(data[:4]) != matrixMagic {
		return nil, corrupt("bad matrix magic", nil)
	}

	if v := binary.LittleEndian.Uint16(data[4:6]); v != blobFormatVersion {
		return nil, corrupt(fmt.Sprintf("unsupported matrix format version %d", v), nil)
	}

	rows := uint64(binary.LittleEndian.Uint32(data[6:10]))
	cols := uint64(binary.LittleEndian.Uint32(data[10:14]))
	nnz := binary.LittleEndian.Uint64(data[14:22])

	// Bound both counts by the available bytes before computing the exact
	// size, so corrupt headers cannot overflow the arithmetic.
	avail := uint64(len(data) - headerSize)
	if rows+1 > avail/8 || nnz > avail/12 {
		return nil, corrupt("matrix blob truncated", nil)
	}

	if uint64(len(data)) != headerSize+(rows+1)*8+nnz*12 {
		return nil, corrupt("matrix blob size mismatch", nil)
	}

	off := headerSize
	rowPtr := make([]uint64, rows+1)
	for i := range rowPtr {
		rowPtr[i] = binary.LittleEndian.Uint64(data[off:])
		off += 8
	}

	if rowPtr[0] != 0 || rowPtr[rows] != nnz {
		return nil, corrupt("matrix row offsets inconsistent", nil)
	}

	for i := 1; i < len(rowPtr); i++ {
		if rowPtr[i] < rowPtr[i-1] || rowPtr[i] > nnz {
			return nil, corrupt("matrix row offsets inconsistent", nil)
		}
	}

	colIdx := make([]uint32, nnz)
	for i := range colIdx {
		colIdx[i] = binary.LittleEndian.Uint32(data[off:])
		off += 4
	}

	values := make([]float64, nnz)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}

	m := tfidf.NewMatrix(int(cols))
	for i := uint64(0); i < rows; i++ {
		row := tfidf.Vector{
			Indices: colIdx[rowPtr[i]:rowPtr[i+1]],
			Values:  values[rowPtr[i]:rowPtr[i+1]],
		}
		if err := m.AppendRow(row); err != nil {
			return nil, corrupt("matrix rows malformed", err)
		}
	}

	return m, nil
}

func writeArtifact(ctx context.Context, store blobstore.BlobStore, name string, plain []byte, ct compress.Type, rc *resource.Controller) (manifestBlob, error) {
	stored, err := compress.Compress(plain, ct)
	if err != nil {
		return manifestBlob{}, fmt.Errorf("compress %s: %w", name, err)
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return manifestBlob{}, fmt.Errorf("create %s: %w", name, err)
	}

	var w io.Writer = wb
	if rc != nil {
		w = resource.NewThrottledWriter(ctx, wb, rc)
	}

	if _, err := w.Write(stored); err != nil {
		_ = wb.Close()
		return manifestBlob{}, fmt.Errorf("write %s: %w", name, err)
	}

	if err := wb.Sync(); err != nil {
		_ = wb.Close()
		return manifestBlob{}, fmt.Errorf("sync %s: %w", name, err)
	}

	if err := wb.Close(); err != nil {
		return manifestBlob{}, fmt.Errorf("close %s: %w", name, err)
	}

	return manifestBlob{
		Path:        name,
		Size:        int64(len(stored)),
		CRC32C:      hash.CRC32C(stored),
		Compression: ct.String(),
	}, nil
}

// Load opens the generation the CURRENT pointer names and reconstructs a
// fitted index from it.
//
// Missing artifacts (no index has been saved yet, or blobs were removed)
// report ErrDataUnavailable; callers typically react by fitting from the
// source corpus instead. Artifacts that are present but fail checksum,
// shape, or format validation report ErrCorruptIndex.
//
// The loaded index answers searches identically to the index that was
// saved. Codec and compression recorded in the artifacts are used for
// decoding regardless of options; options affect the loaded index's future
// saves.
func Load[T any](ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Index[T], error) {
	opts := applyOptions(optFns)

	start := time.Now()
	ix, gen, err := loadIndex[T](ctx, store, opts)
	duration := time.Since(start)

	opts.metricsCollector.RecordLoad(duration, err)

	docs := 0
	if ix != nil {
		docs = len(ix.docs)
	}

	opts.logger.LogLoad(ctx, gen, docs, err)

	return ix, err
}

// LoadFromDir loads the current generation from a local directory.
func LoadFromDir[T any](ctx context.Context, dir string, optFns ...Option) (*Index[T], error) {
	store, err := blobstore.NewLocalStore(dir)
	if err != nil {
		return nil, err
	}

	return Load[T](ctx, store, optFns...)
}

func loadIndex[T any](ctx context.Context, store blobstore.BlobStore, opts options) (*Index[T], uint64, error) {
	cur, err := blobstore.ReadAll(ctx, store, currentPointerName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: no current generation", ErrDataUnavailable)
		}
		return nil, 0, fmt.Errorf("%w: read current pointer: %v", ErrDataUnavailable, err)
	}

	manifestPath := strings.TrimSpace(string(cur))
	if manifestPath == "" {
		return nil, 0, corrupt("empty current pointer", nil)
	}

	data, err := blobstore.ReadAll(ctx, store, manifestPath)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: manifest %s missing", ErrDataUnavailable, manifestPath)
		}
		return nil, 0, fmt.Errorf("%w: read manifest %s: %v", ErrDataUnavailable, manifestPath, err)
	}

	var mf manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, 0, corrupt("decode manifest", err)
	}

	if mf.Version != persistVersion {
		return nil, 0, corrupt(fmt.Sprintf("unsupported manifest version %d", mf.Version), nil)
	}

	// Bound the bytes staged in memory while both artifacts are fetched.
	staging := mf.Model.Size + mf.Matrix.Size
	if err := opts.resources.AcquireMemory(staging); err != nil {
		return nil, 0, err
	}
	defer opts.resources.ReleaseMemory(staging)

	var modelPlain, matrixPlain []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modelPlain, err = fetchArtifact(gctx, store, mf.Model, opts.resources)
		return err
	})
	g.Go(func() error {
		var err error
		matrixPlain, err = fetchArtifact(gctx, store, mf.Matrix, opts.resources)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	codecName, payload, err := parseModelHeader(modelPlain)
	if err != nil {
		return nil, 0, err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, 0, corrupt(fmt.Sprintf("unknown codec %q", codecName), nil)
	}

	var pm persistedModel[T]
	if err := c.Unmarshal(payload, &pm); err != nil {
		return nil, 0, corrupt("decode model", err)
	}

	if len(pm.Docs) != mf.DocCount {
		return nil, 0, corrupt(fmt.Sprintf("manifest records %d documents, model has %d", mf.DocCount, len(pm.Docs)), nil)
	}

	if len(pm.Terms) != mf.VocabSize {
		return nil, 0, corrupt(fmt.Sprintf("manifest records %d terms, model has %d", mf.VocabSize, len(pm.Terms)), nil)
	}

	matrix, err := decodeMatrix(matrixPlain)
	if err != nil {
		return nil, 0, err
	}

	if matrix.Cols() != len(pm.Terms) {
		return nil, 0, corrupt(fmt.Sprintf("matrix has %d columns, vocabulary has %d terms", matrix.Cols(), len(pm.Terms)), nil)
	}

	if matrix.Rows() != len(pm.Docs) {
		return nil, 0, corrupt(fmt.Sprintf("matrix has %d rows, model has %d documents", matrix.Rows(), len(pm.Docs)), nil)
	}

	analyzer, err := analysis.New(func(o *analysis.Options) {
		o.NGramMin = pm.NGramMin
		o.NGramMax = pm.NGramMax
		o.StopWords = pm.StopWords
	})
	if err != nil {
		return nil, 0, corrupt("restore analyzer", err)
	}

	vec, err := tfidf.Restore(pm.Terms, pm.IDF, func(o *tfidf.Options) {
		o.MinDF = pm.MinDF
		o.MaxDF = pm.MaxDF
		o.Analyzer = analyzer
	})
	if err != nil {
		return nil, 0, corrupt("restore vectorizer", err)
	}

	byID := make(map[string]int, len(pm.Docs))
	for i, d := range pm.Docs {
		if d.ID == "" {
			return nil, 0, corrupt("document with empty id", nil)
		}
		if _, dup := byID[d.ID]; dup {
			return nil, 0, corrupt(fmt.Sprintf("duplicate document id %q", d.ID), nil)
		}
		byID[d.ID] = i
	}

	saveCodec := c
	if opts.codec != nil {
		saveCodec = opts.codec
	}

	comp := opts.compression
	if !opts.compressionSet {
		if ct, ok := compress.TypeByName(mf.Model.Compression); ok {
			comp = Compression(ct)
		}
	}

	return &Index[T]{
		vec:         vec,
		matrix:      matrix,
		docs:        pm.Docs,
		byID:        byID,
		tags:        buildTagIndex(pm.Docs),
		codec:       saveCodec,
		compression: comp,
		logger:      opts.logger,
		metrics:     opts.metricsCollector,
		resources:   opts.resources,
	}, mf.Generation, nil
}

// fetchArtifact reads one stored blob, verifies size and checksum against
// the manifest, and returns the decompressed payload.
func fetchArtifact(ctx context.Context, store blobstore.BlobStore, mb manifestBlob, rc *resource.Controller) ([]byte, error) {
	stored, err := readStored(ctx, store, mb.Path, rc)
	if err != nil {
		return nil, err
	}

	if int64(len(stored)) != mb.Size {
		return nil, corrupt(fmt.Sprintf("%s: manifest records %d bytes, got %d", mb.Path, mb.Size, len(stored)), nil)
	}

	if crc := hash.CRC32C(stored); crc != mb.CRC32C {
		return nil, corrupt("checksum verification failed", &ErrChecksumMismatch{
			Name:     mb.Path,
			Expected: mb.CRC32C,
			Actual:   crc,
		})
	}

	ct, ok := compress.TypeByName(mb.Compression)
	if !ok {
		return nil, corrupt(fmt.Sprintf("%s: unknown compression %q", mb.Path, mb.Compression), nil)
	}

	plain, err := compress.Decompress(stored, ct)
	if err != nil {
		return nil, corrupt(fmt.Sprintf("decompress %s", mb.Path), err)
	}

	return plain, nil
}

func readStored(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if rc == nil {
		data, err = blobstore.ReadAll(ctx, store, name)
	} else {
		data, err = readThrottled(ctx, store, name, rc)
	}

	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: artifact %s missing", ErrDataUnavailable, name)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, name, err)
	}

	return data, nil
}

func readThrottled(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rd, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	return io.ReadAll(resource.NewThrottledReader(ctx, rd, rc))
}
