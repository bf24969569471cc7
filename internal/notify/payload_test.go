package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadBuilder_CopiesAttachment(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "plant.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg bytes"), 0o644))

	attachmentDir := filepath.Join(t.TempDir(), "notifications")
	b := newPayloadBuilder(logger.New("error", "dev"), attachmentDir)

	content := b.build(reminder.Payload{
		ReminderID: "r1",
		Title:      "Water plants",
		Body:       "Your reminder",
		Image:      src,
	})

	require.Equal(t, filepath.Join(attachmentDir, "plant.jpg"), content.Attachment)
	copied, err := os.ReadFile(content.Attachment)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), copied)
	assert.Equal(t, "r1", content.Data["id"])
}

func TestPayloadBuilder_MissingImageDegrades(t *testing.T) {
	b := newPayloadBuilder(logger.New("error", "dev"), t.TempDir())

	content := b.build(reminder.Payload{
		ReminderID: "r1",
		Title:      "Water plants",
		Body:       "Your reminder",
		Image:      "/does/not/exist.jpg",
	})

	// Copy failure drops the attachment, never the notification.
	assert.Empty(t, content.Attachment)
	assert.Equal(t, "Water plants", content.Title)
}

func TestPayloadBuilder_NoImage(t *testing.T) {
	b := newPayloadBuilder(logger.New("error", "dev"), t.TempDir())

	content := b.build(reminder.Payload{Title: "No picture"})
	assert.Empty(t, content.Attachment)
}
