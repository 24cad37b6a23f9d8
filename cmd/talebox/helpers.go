package main

import (
	"context"
	"fmt"

	"github.com/aretw0/talebox/pkg/adapters/descriptor"
	"github.com/aretw0/talebox/pkg/adapters/packfs"
	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/ports"
)

// loadBook opens a single book folder in whichever format it uses.
func loadBook(ctx context.Context, dir string) (*domain.Story, ports.AssetResolver, error) {
	for _, l := range []ports.StoryLoader{packfs.New(), descriptor.New()} {
		if l.Detect(dir) {
			return l.Load(ctx, dir)
		}
	}
	return nil, nil, fmt.Errorf("%s: no book found", dir)
}
