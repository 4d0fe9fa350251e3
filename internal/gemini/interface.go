package gemini

import "context"

// UploadedFile identifies a file uploaded to the AI backend, ready to be
// referenced from prompts.
type UploadedFile struct {
	Name     string
	URI      string
	MIMEType string
}

// Part is one piece of a prompt: inline text or a reference to an
// uploaded file.
type Part struct {
	Text string
	File *UploadedFile
}

// TextPart wraps prompt text as a Part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// FilePart wraps an uploaded file reference as a Part.
func FilePart(f UploadedFile) Part {
	return Part{File: &f}
}

// Client is the AI collaborator surface the refinement stages consume.
// Implementations rotate API keys on quota exhaustion; transient backend
// failures come back wrapped in ErrStageTransient so callers can apply
// their own retry policy.
type Client interface {
	// GenerateJSON sends the parts to the model and returns the raw text
	// of its JSON response.
	GenerateJSON(ctx context.Context, model string, parts []Part) (string, error)

	// UploadFile pushes a local file to the backend and blocks until the
	// backend reports it ready.
	UploadFile(ctx context.Context, path string) (UploadedFile, error)
}
