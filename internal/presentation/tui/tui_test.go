package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/talebox/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")

	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer(80)

	out, err := render("| Book | Stages |\n|---|---|\n| fox | 3 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "fox")
}
