package packfs_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/talebox/pkg/adapters/packfs"
	"github.com/aretw0/talebox/pkg/assets"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/pack"
	contract "github.com/aretw0/talebox/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var narration = bytes.Repeat([]byte("la"), 400)

func buildPack(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "cover.png"), []byte("cover"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "story.mp3"), narration, 0o644))

	story := &domain.Story{
		Stages: []domain.Stage{
			{ID: "cover", Root: true, Image: "cover.png", Controls: domain.ControlSettings{OK: true},
				OK: &domain.Transition{ChoiceID: "c"}},
			{ID: "page", Audio: "story.mp3", Controls: domain.ControlSettings{Autoplay: true}},
		},
		Choices: []domain.Choice{{ID: "c", Options: []string{"page"}}},
	}

	dir := filepath.Join(t.TempDir(), "fox")
	require.NoError(t, pack.Build(dir, story, assets.Dir{Images: src, Audio: src}))
	return dir
}

func TestLoader_Contract(t *testing.T) {
	contract.StoryLoaderContractTest(t, packfs.New(), buildPack(t), t.TempDir())
}

func TestLoader_DecryptsAssets(t *testing.T) {
	dir := buildPack(t)

	story, res, err := packfs.New().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, story.Stages, 2)

	rc, err := res.OpenAudio(story.Stages[1].Audio)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, narration, got)
}

func TestLoader_DetectNeedsAllIndexFiles(t *testing.T) {
	dir := buildPack(t)
	loader := packfs.New()
	require.True(t, loader.Detect(dir))

	require.NoError(t, os.Remove(filepath.Join(dir, pack.SoundIndexFile)))
	assert.False(t, loader.Detect(dir))
}

func TestLoader_FactoryDisabled(t *testing.T) {
	dir := buildPack(t)
	path := filepath.Join(dir, pack.NodeIndexFile)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// FactoryDisabled follows the seven leading header fields.
	raw[24] = 1
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	thumbs := &countingThumbnailer{}
	_, _, err = packfs.New(packfs.WithThumbnailer(thumbs)).Load(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrFactoryDisabled)
	assert.Zero(t, thumbs.calls)
	assert.NoFileExists(t, filepath.Join(dir, pack.ThumbnailFile))
}

type countingThumbnailer struct{ calls int }

func (c *countingThumbnailer) Thumbnail(_ io.Reader, _, dst string) error {
	c.calls++
	return os.WriteFile(dst, []byte("thumb"), 0o644)
}
