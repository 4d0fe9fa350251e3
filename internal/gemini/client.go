package gemini

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrStageTransient marks backend failures worth retrying: rate limits
// that survived key rotation, 5xx responses, timeouts, empty payloads.
var ErrStageTransient = errors.New("transient AI backend failure")

const (
	uploadPollInterval = 5 * time.Second
	uploadPollMax      = 120 // give up on processing uploads after 10 min
)

// GenerateJSON sends the parts to the model, forcing a JSON response.
// Rotates API keys on 429 / quota errors, trying each key at most once per
// call.
func (c *implClient) GenerateJSON(ctx context.Context, model string, parts []Part) (string, error) {
	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := c.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		content := genai.NewContentFromParts(toGenaiParts(parts), genai.RoleUser)
		result, err := client.Models.GenerateContent(ctx, model, []*genai.Content{content},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if isTransientError(err) {
				return "", fmt.Errorf("%w: generate content: %v", ErrStageTransient, err)
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		text := collectText(result)
		if text == "" {
			return "", fmt.Errorf("%w: empty response from model %s", ErrStageTransient, model)
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: all API keys exhausted: %v", ErrStageTransient, lastErr)
}

// UploadFile pushes a local file to the Gemini file store and polls until
// the backend has finished processing it.
func (c *implClient) UploadFile(ctx context.Context, path string) (UploadedFile, error) {
	mime := mimeByExtension(path)
	if mime == "" {
		return UploadedFile{}, fmt.Errorf("unsupported upload type %q", filepath.Ext(path))
	}

	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := c.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		c.logger.Info(ctx, "Uploading %s (%s)", filepath.Base(path), mime)
		file, err := client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mime})
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Key %d rate limited during upload, rotating...", keyIdx+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			if ctx.Err() != nil {
				return UploadedFile{}, ctx.Err()
			}
			if isTransientError(err) {
				return UploadedFile{}, fmt.Errorf("%w: upload %s: %v", ErrStageTransient, filepath.Base(path), err)
			}
			return UploadedFile{}, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
		}

		file, err = c.awaitProcessing(ctx, client, file)
		if err != nil {
			return UploadedFile{}, err
		}
		return UploadedFile{Name: file.Name, URI: file.URI, MIMEType: mime}, nil
	}

	return UploadedFile{}, fmt.Errorf("%w: all API keys exhausted: %v", ErrStageTransient, lastErr)
}

// awaitProcessing polls the file state until the backend reports ACTIVE.
func (c *implClient) awaitProcessing(ctx context.Context, client *genai.Client, file *genai.File) (*genai.File, error) {
	for polls := 0; file.State == genai.FileStateProcessing; polls++ {
		if polls >= uploadPollMax {
			return nil, fmt.Errorf("%w: upload %s still processing after %v",
				ErrStageTransient, file.Name, time.Duration(uploadPollMax)*uploadPollInterval)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.sleeper(uploadPollInterval)

		var err error
		file, err = client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: poll upload %s: %v", ErrStageTransient, file.Name, err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("upload %s failed processing", file.Name)
	}
	return file, nil
}

func toGenaiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.File != nil {
			out = append(out, genai.NewPartFromURI(p.File.URI, p.File.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}

func collectText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func isTransientError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"500", "502", "503", "504",
		"UNAVAILABLE", "DEADLINE_EXCEEDED", "INTERNAL",
		"timeout", "connection reset", "connection refused", "EOF",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// mimeByExtension maps the file types we upload as refinement context.
func mimeByExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".avi":
		return "video/x-msvideo"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".txt", ".srt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	default:
		return ""
	}
}
