package memory_test

import (
	"context"
	"io"
	"testing"

	"github.com/aretw0/talebox/pkg/adapters/memory"
	"github.com/aretw0/talebox/pkg/domain"
	contract "github.com/aretw0/talebox/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func story() *domain.Story {
	return &domain.Story{
		Title: "Owl",
		Stages: []domain.Stage{
			{ID: "cover", Root: true, Image: "owl.png", Audio: "hoot.mp3", OK: &domain.Transition{ChoiceID: "c"}},
			{ID: "tree"},
		},
		Choices: []domain.Choice{{ID: "c", Options: []string{"tree"}}},
	}
}

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader()
	require.NoError(t, loader.Add("owl", memory.Book{
		Story:  story(),
		Images: map[string][]byte{"owl.png": []byte("png")},
		Audio:  map[string][]byte{"hoot.mp3": []byte("mp3")},
	}))

	contract.StoryLoaderContractTest(t, loader, "/library/owl", "/library/cat")
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	loader, err := memory.NewFromStories(map[string]*domain.Story{"owl": story()})
	require.NoError(t, err)

	first, _, err := loader.Load(context.Background(), "owl")
	require.NoError(t, err)
	first.Stages[0].ID = "changed"

	second, _, err := loader.Load(context.Background(), "owl")
	require.NoError(t, err)
	assert.Equal(t, "cover", second.Stages[0].ID)
	assert.Equal(t, "c", second.Stages[0].OK.ChoiceID)
}

func TestInMemoryLoader_Assets(t *testing.T) {
	loader := memory.NewLoader()
	require.NoError(t, loader.Add("owl", memory.Book{
		Story:  story(),
		Images: map[string][]byte{"owl.png": []byte("png")},
	}))

	_, res, err := loader.Load(context.Background(), "owl")
	require.NoError(t, err)

	rc, err := res.OpenImage("owl.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "png", string(data))

	_, err = res.OpenAudio("hoot.mp3")
	var ioe *domain.IOError
	assert.ErrorAs(t, err, &ioe)
}

func TestInMemoryLoader_AddRemove(t *testing.T) {
	loader := memory.NewLoader()
	assert.Error(t, loader.Add("", memory.Book{Story: story()}))
	assert.Error(t, loader.Add("nil", memory.Book{}))

	require.NoError(t, loader.Add("b", memory.Book{Story: story()}))
	require.NoError(t, loader.Add("a", memory.Book{Story: story()}))
	assert.Equal(t, []string{"a", "b"}, loader.Names())

	loader.Remove("a")
	assert.False(t, loader.Detect("a"))
	assert.True(t, loader.Detect("b"))

	_, _, err := loader.Load(context.Background(), "a")
	assert.Error(t, err)
}
