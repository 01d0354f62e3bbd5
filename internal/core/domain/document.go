package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// previewLength is the number of characters kept in a chunk preview.
const previewLength = 200

// SourceFile is a markdown file discovered in the portfolio tree.
type SourceFile struct {
	// Path is the file location on disk.
	Path string

	// Category is the name of the directory containing the file.
	Category string
}

// RawDocument is the unparsed content of a source file.
type RawDocument struct {
	// Path is the file location on disk.
	Path string

	// Content is the file content.
	Content []byte

	// Size is the file size in bytes.
	Size int64

	// ModifiedAt is the file modification time.
	ModifiedAt time.Time
}

// FrontMatter is the structured metadata block at the head of a markdown file.
type FrontMatter struct {
	// Title is the document title, empty when not set.
	Title string

	// Technologies is the explicit technology list, as written.
	Technologies []string

	// Extra holds every other key, with list values joined by ", ".
	Extra map[string]string
}

// Document is a parsed portfolio markdown file.
// It is immutable once read and rebuilt on every refresh.
type Document struct {
	// Path is the file location on disk.
	Path string

	// Filename is the base name including extension.
	Filename string

	// Stem is the base name without extension.
	Stem string

	// Category is the parent directory name.
	// It takes precedence over any category key in the front matter.
	Category string

	// Title is the front matter title, or the stem when absent.
	Title string

	// Body is the markdown content after the front matter.
	Body string

	// Technologies is the deduplicated, lower-cased technology set.
	Technologies []string

	// Size is the file size in bytes.
	Size int64

	// ModifiedAt is the file modification time.
	ModifiedAt time.Time

	// Extra holds arbitrary front matter fields.
	Extra map[string]string
}

// FullText renders the text that gets chunked: a title heading and the body.
func (d *Document) FullText() string {
	return "# " + d.Title + "\n\n" + d.Body
}

// ChunkID builds the deterministic identifier of a chunk.
func ChunkID(category, stem string, index int) string {
	return fmt.Sprintf("%s_%s_%d", category, stem, index)
}

// PreviewText truncates text to the preview length, adding an ellipsis when cut.
func PreviewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// ChunkMetadata is the typed metadata stored alongside each chunk.
type ChunkMetadata struct {
	// Title is the document title.
	Title string

	// Category is the document category (its directory name).
	Category string

	// Filename is the document file name.
	Filename string

	// FilePath is the document location on disk.
	FilePath string

	// FileSize is the document size in bytes.
	FileSize int64

	// LastModified is the document modification time.
	LastModified time.Time

	// Technologies is the document's technology set.
	Technologies []string

	// ChunkID is the chunk identifier.
	ChunkID string

	// ChunkIndex is the chunk position within its document.
	ChunkIndex int

	// TotalChunks is the number of chunks the document produced.
	TotalChunks int

	// Preview is the truncated chunk text.
	Preview string

	// Extra holds front matter fields without a dedicated slot.
	Extra map[string]string
}

// Metadata keys used at the storage boundary.
const (
	MetaTitle        = "title"
	MetaCategory     = "category"
	MetaFilename     = "filename"
	MetaFilePath     = "file_path"
	MetaFileSize     = "file_size"
	MetaLastModified = "last_modified"
	MetaTechnologies = "technologies"
	MetaChunkID      = "chunk_id"
	MetaChunkIndex   = "chunk_index"
	MetaTotalChunks  = "total_chunks"
	MetaChunkText    = "chunk_text"
)

// technologySeparator joins technology lists when flattened.
const technologySeparator = ", "

// Flatten serialises the metadata into scalar string fields.
// Known fields win over extras with the same key.
func (m ChunkMetadata) Flatten() map[string]string {
	out := make(map[string]string, len(m.Extra)+11)
	for k, v := range m.Extra {
		out[k] = v
	}
	out[MetaTitle] = m.Title
	out[MetaCategory] = m.Category
	out[MetaFilename] = m.Filename
	out[MetaFilePath] = m.FilePath
	out[MetaFileSize] = strconv.FormatInt(m.FileSize, 10)
	if !m.LastModified.IsZero() {
		out[MetaLastModified] = m.LastModified.UTC().Format(time.RFC3339)
	}
	out[MetaTechnologies] = strings.Join(m.Technologies, technologySeparator)
	out[MetaChunkID] = m.ChunkID
	out[MetaChunkIndex] = strconv.Itoa(m.ChunkIndex)
	out[MetaTotalChunks] = strconv.Itoa(m.TotalChunks)
	out[MetaChunkText] = m.Preview
	return out
}

// ParseChunkMetadata rebuilds typed metadata from flattened fields.
// Malformed numeric or time fields are left at their zero value.
func ParseChunkMetadata(fields map[string]string) ChunkMetadata {
	m := ChunkMetadata{
		Title:    fields[MetaTitle],
		Category: fields[MetaCategory],
		Filename: fields[MetaFilename],
		FilePath: fields[MetaFilePath],
		ChunkID:  fields[MetaChunkID],
		Preview:  fields[MetaChunkText],
	}
	m.FileSize, _ = strconv.ParseInt(fields[MetaFileSize], 10, 64)
	m.ChunkIndex, _ = strconv.Atoi(fields[MetaChunkIndex])
	m.TotalChunks, _ = strconv.Atoi(fields[MetaTotalChunks])
	if ts, err := time.Parse(time.RFC3339, fields[MetaLastModified]); err == nil {
		m.LastModified = ts
	}
	if techs := fields[MetaTechnologies]; techs != "" {
		m.Technologies = SplitTechnologies(techs)
	}

	for k, v := range fields {
		if isReservedMetaKey(k) {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[k] = v
	}
	return m
}

func isReservedMetaKey(k string) bool {
	switch k {
	case MetaTitle, MetaCategory, MetaFilename, MetaFilePath, MetaFileSize, MetaLastModified,
		MetaTechnologies, MetaChunkID, MetaChunkIndex, MetaTotalChunks, MetaChunkText:
		return true
	default:
		return false
	}
}

// Chunk is a bounded piece of a document, the unit of embedding and retrieval.
type Chunk struct {
	// ID is category_stem_index, unique within a collection.
	ID string

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Metadata is the document metadata plus chunk position fields.
	Metadata ChunkMetadata
}

// MetadataFilter is an equality filter over flattened metadata fields.
// An empty filter matches everything.
type MetadataFilter map[string]string

// Matches reports whether every filter field equals the metadata value.
func (f MetadataFilter) Matches(fields map[string]string) bool {
	for k, want := range f {
		if got, ok := fields[k]; !ok || got != want {
			return false
		}
	}
	return true
}

// Keys returns the filter keys in sorted order.
func (f MetadataFilter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
