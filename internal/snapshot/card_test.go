package snapshot_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"anonq/internal/domain"
	"anonq/internal/snapshot"
)

func testMessage(content string) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		ProfileID: uuid.New(),
		Content:   content,
		CreatedAt: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteCard_ProducesDecodablePNG(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	req.NoError(snapshot.WriteCard(&buf, testMessage("hello there"), "alice"))

	img, err := png.Decode(&buf)
	req.NoError(err)
	req.Equal(480, img.Bounds().Dx())
	req.Greater(img.Bounds().Dy(), 0)
}

func TestWriteCard_GrowsWithContent(t *testing.T) {
	req := require.New(t)

	var short, long bytes.Buffer
	req.NoError(snapshot.WriteCard(&short, testMessage("one line"), "alice"))
	req.NoError(snapshot.WriteCard(&long, testMessage(strings.Repeat("wrap me around ", 40)), "alice"))

	shortImg, err := png.Decode(&short)
	req.NoError(err)
	longImg, err := png.Decode(&long)
	req.NoError(err)
	req.Greater(longImg.Bounds().Dy(), shortImg.Bounds().Dy())
}

func TestWriteCard_HandlesUnbrokenRuns(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	req.NoError(snapshot.WriteCard(&buf, testMessage(strings.Repeat("a", 300)), "alice"))

	img, err := png.Decode(&buf)
	req.NoError(err)
	req.Equal(480, img.Bounds().Dx())
}
