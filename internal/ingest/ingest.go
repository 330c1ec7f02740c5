// Package ingest converts an uploaded file into the normalized document
// payload submitted to the model: extracted plain text, or an opaque base64
// attachment for formats the model understands natively.
package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/baholash/baholash-api/internal/models"
	"github.com/baholash/baholash-api/internal/observability"
	"github.com/baholash/baholash-api/pkg/docxtext"
)

// MIME type declared by browsers for OOXML word-processing uploads.
const mimeWordDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	// ErrDocumentTooLarge indicates the upload exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum allowed size")
	// ErrExtractionFailed indicates the word document could not be converted to text.
	ErrExtractionFailed = errors.New("document text extraction failed")
)

// Ingestor reads uploads into memory and picks the payload variant. The
// variant is decided by the upload's declared MIME type; content detection is
// only consulted when no type was declared at all.
type Ingestor struct {
	maxSize int64
	logger  zerolog.Logger
}

// NewIngestor constructs an ingestor with the given size limit in megabytes.
func NewIngestor(maxSizeMB int, logger zerolog.Logger) *Ingestor {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &Ingestor{
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "ingestor").Logger(),
	}
}

// Ingest fully reads the file and produces exactly one payload variant:
//   - application/pdf: base64 binary payload, forwarded untouched
//   - OOXML word document: extracted plain text
//   - text/*: decoded plain text, byte-for-byte
//   - anything else: best-effort text decode
func (i *Ingestor) Ingest(file *multipart.FileHeader) (models.Document, error) {
	if file == nil {
		return nil, errors.New("file is required")
	}

	if file.Size > i.maxSize {
		observability.IngestRejected().WithLabelValues("size").Inc()
		return nil, ErrDocumentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, i.maxSize+1)); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(buf.Len()) > i.maxSize {
		observability.IngestRejected().WithLabelValues("size").Inc()
		return nil, ErrDocumentTooLarge
	}

	declared := declaredType(file)
	if declared == "" {
		declared = mimetype.Detect(buf.Bytes()).String()
		i.logger.Debug().Str("detected_mime", declared).Msg("no declared type, fell back to detection")
	}

	switch {
	case declared == "application/pdf":
		return models.BinaryPayload{
			Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
			MimeType: "application/pdf",
		}, nil

	case declared == mimeWordDocument:
		text, err := docxtext.Extract(buf.Bytes())
		if err != nil {
			observability.IngestRejected().WithLabelValues("extraction").Inc()
			i.logger.Warn().Err(err).Str("file", file.Filename).Msg("word document extraction failed")
			return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, err)
		}
		return models.TextPayload{Content: text}, nil

	case strings.HasPrefix(declared, "text/"):
		return models.TextPayload{Content: buf.String()}, nil

	default:
		// Best-effort text decode; genuinely binary formats may come out
		// unreadable, which the user sees rather than a silent failure.
		i.logger.Debug().Str("declared_mime", declared).Msg("unrecognised type, decoding as text")
		return models.TextPayload{Content: buf.String()}, nil
	}
}

func declaredType(file *multipart.FileHeader) string {
	raw := strings.TrimSpace(file.Header.Get("Content-Type"))
	if raw == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return strings.ToLower(parsed)
}
