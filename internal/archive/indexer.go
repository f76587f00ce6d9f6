package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/codetome/linepack/internal/domain"
)

const (
	// IndexSuffix is the suffix for index directories
	IndexSuffix = ".bleve"

	// MaxBatchSize is the maximum number of documents per batch
	MaxBatchSize = 100

	// MaxBatchBytes is the maximum bytes per batch (10MB)
	MaxBatchBytes = 10 * 1024 * 1024
)

// Indexer manages Bleve indexes for packed source roots.
type Indexer struct {
	baseDir string
}

// NewIndexer creates a new indexer.
func NewIndexer(baseDir string) *Indexer {
	return &Indexer{
		baseDir: baseDir,
	}
}

// indexPath returns the path to an index for a given root ID.
func (i *Indexer) indexPath(rootID string) string {
	return filepath.Join(i.baseDir, "indexes", rootID+IndexSuffix)
}

// CreateIndexMapping creates the Bleve index mapping for packed file documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Content field - analyzed for full-text search
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = true
	contentField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldContent, contentField)

	// Root - keyword (not analyzed), stored for retrieval
	rootField := bleve.NewTextFieldMapping()
	rootField.Analyzer = keyword.Name
	rootField.Store = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldRoot, rootField)

	// Language - keyword, stored
	langField := bleve.NewTextFieldMapping()
	langField.Analyzer = keyword.Name
	langField.Store = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldLanguage, langField)

	// FilePath - keyword, stored
	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	pathField.Store = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldFilePath, pathField)

	// Ratio - numeric, stored for stats reporting
	ratioField := bleve.NewNumericFieldMapping()
	ratioField.Store = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldRatio, ratioField)

	// ID - stored but not indexed (we use the document ID)
	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.PackedFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// OpenForWrite opens or creates an index for writing.
func (i *Indexer) OpenForWrite(rootID string) (bleve.Index, error) {
	indexPath := i.indexPath(rootID)

	// Try to open existing index
	index, err := bleve.Open(indexPath)
	if err == nil {
		return index, nil
	}

	// Create new index
	indexMapping := CreateIndexMapping()
	index, err = bleve.New(indexPath, indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return index, nil
}

// OpenForRead opens an existing index for reading.
func (i *Indexer) OpenForRead(rootID string) (bleve.Index, error) {
	indexPath := i.indexPath(rootID)

	index, err := bleve.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return index, nil
}

// IndexExists checks if an index exists for the given root ID.
func (i *Indexer) IndexExists(rootID string) bool {
	indexPath := i.indexPath(rootID)
	_, err := os.Stat(indexPath)
	return err == nil
}

// CreateAlias creates an IndexAlias combining multiple indexes.
func (i *Indexer) CreateAlias(rootIDs []string) (bleve.IndexAlias, error) {
	indexes := make([]bleve.Index, 0, len(rootIDs))

	for _, rootID := range rootIDs {
		index, err := i.OpenForRead(rootID)
		if err != nil {
			// Close already opened indexes
			for _, idx := range indexes {
				_ = idx.Close()
			}
			return nil, fmt.Errorf("failed to open index for %s: %w", rootID, err)
		}
		indexes = append(indexes, index)
	}

	if len(indexes) == 0 {
		return nil, fmt.Errorf("no indexes to combine")
	}

	return bleve.NewIndexAlias(indexes...), nil
}

// IndexFiles writes packed file documents to the root's index in batches.
// Returns the number of documents indexed.
func (i *Indexer) IndexFiles(rootID string, files []domain.PackedFile) (count int, err error) {
	index, err := i.OpenForWrite(rootID)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	batchSize := 0
	batchBytes := 0
	totalIndexed := 0

	for _, file := range files {
		if err := batch.Index(file.ID, file); err != nil {
			continue // Skip on indexing error
		}
		batchSize++
		batchBytes += len(file.Content)

		if batchSize >= MaxBatchSize || batchBytes >= MaxBatchBytes {
			if err := index.Batch(batch); err != nil {
				return totalIndexed, fmt.Errorf("batch index failed: %w", err)
			}
			totalIndexed += batchSize
			batch = index.NewBatch()
			batchSize = 0
			batchBytes = 0
		}
	}

	if batchSize > 0 {
		if err := index.Batch(batch); err != nil {
			return totalIndexed, fmt.Errorf("final batch index failed: %w", err)
		}
		totalIndexed += batchSize
	}

	return totalIndexed, nil
}

// DeleteDocuments removes documents from the root's index by ID.
func (i *Indexer) DeleteDocuments(rootID string, docIDs []string) (err error) {
	if len(docIDs) == 0 {
		return nil
	}

	index, err := i.OpenForWrite(rootID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	for _, docID := range docIDs {
		batch.Delete(docID)
	}

	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("batch delete failed: %w", err)
	}
	return nil
}

// DeleteIndex removes an index from disk.
func (i *Indexer) DeleteIndex(rootID string) error {
	indexPath := i.indexPath(rootID)
	return os.RemoveAll(indexPath)
}

// GetDocumentCount returns the number of documents in an index.
func (i *Indexer) GetDocumentCount(rootID string) (count uint64, err error) {
	index, err := i.OpenForRead(rootID)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return index.DocCount()
}
