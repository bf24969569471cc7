package notify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Raimguhinov/remind-go/internal/platform"
	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
)

// payloadBuilder turns a reminder payload into displayable platform content.
// Image attachments must live in app-private storage, so the referenced file
// is copied there first; a failed copy degrades to content without an
// attachment instead of failing the scheduling operation.
type payloadBuilder struct {
	logger        *logger.Logger
	attachmentDir string
}

func newPayloadBuilder(l *logger.Logger, attachmentDir string) *payloadBuilder {
	return &payloadBuilder{
		logger:        l,
		attachmentDir: attachmentDir,
	}
}

func (b *payloadBuilder) build(p reminder.Payload) platform.Content {
	content := platform.Content{
		Title: p.Title,
		Body:  p.Body,
		Data:  map[string]string{"id": p.ReminderID},
	}

	if p.Image != "" {
		dest, err := b.copyAttachment(p.Image)
		if err != nil {
			b.logger.Warn("notifyGateway - payloadBuilder - attachment dropped",
				logger.Err(err), "image", p.Image)
		} else {
			content.Attachment = dest
		}
	}

	return content
}

func (b *payloadBuilder) copyAttachment(src string) (string, error) {
	if err := os.MkdirAll(b.attachmentDir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("os.Open: %w", err)
	}
	defer in.Close()

	dest := filepath.Join(b.attachmentDir, filepath.Base(src))

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("os.Create: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	return dest, nil
}
