package ai

import "context"

// CompletionRequest is a composed evaluation prompt: the instruction block and
// the student's document as a second message part.
type CompletionRequest struct {
	Instruction string
	Document    DocumentPart
}

// DocumentPart carries either inline text or a base64-encoded binary
// attachment with its media type. Data being set marks the part as binary.
type DocumentPart struct {
	Text     string
	Data     string
	MimeType string
}

// Binary reports whether the part travels as an inline binary attachment.
func (p DocumentPart) Binary() bool {
	return p.Data != ""
}

// Completer describes a generative model that turns a composed request into a
// free-text response. An empty response is valid, not an error.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
