package tests

import (
	"context"
	"io"
	"testing"

	"github.com/aretw0/talebox/pkg/ports"
)

// StoryLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.StoryLoader.
// dir must hold a valid book whose stage assets all exist; empty must not be detected.
func StoryLoaderContractTest(t *testing.T, loader ports.StoryLoader, dir string, empty string) {
	t.Helper()

	t.Run("Name", func(t *testing.T) {
		if loader.Name() == "" {
			t.Error("expected a non-empty loader name")
		}
	})

	t.Run("Detect", func(t *testing.T) {
		if !loader.Detect(dir) {
			t.Errorf("expected %s to be detected", dir)
		}
		if loader.Detect(empty) {
			t.Errorf("expected %s not to be detected", empty)
		}
	})

	t.Run("Load_SingleRoot", func(t *testing.T) {
		story, _, err := loader.Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("unexpected error loading %s: %v", dir, err)
		}

		roots := 0
		for _, s := range story.Stages {
			if s.Root {
				roots++
			}
		}
		if roots != 1 {
			t.Errorf("expected exactly one root stage, got %d", roots)
		}
	})

	t.Run("Load_AssetsResolve", func(t *testing.T) {
		story, assets, err := loader.Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("unexpected error loading %s: %v", dir, err)
		}

		open := func(kind, name string, fn func(string) (io.ReadCloser, error)) {
			if name == "" {
				return
			}
			rc, err := fn(name)
			if err != nil {
				t.Errorf("%s %q does not resolve: %v", kind, name, err)
				return
			}
			rc.Close()
		}
		for _, s := range story.Stages {
			open("image", s.Image, assets.OpenImage)
			open("audio", s.Audio, assets.OpenAudio)
		}
	})
}
