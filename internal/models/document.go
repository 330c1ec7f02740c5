package models

// Document is the ingested upload, a two-variant tagged union. Exactly one
// variant exists per uploaded file; the variant is chosen by the upload's
// declared MIME type, never by content sniffing.
type Document interface {
	isDocument()
}

// TextPayload carries a document whose content was decoded to plain text.
type TextPayload struct {
	Content string
}

// BinaryPayload carries an opaque base64-encoded document forwarded to the
// model as an inline attachment with its media type preserved.
type BinaryPayload struct {
	Data     string
	MimeType string
}

func (TextPayload) isDocument()   {}
func (BinaryPayload) isDocument() {}
