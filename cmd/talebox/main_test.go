package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/aretw0/talebox/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const story = `
title: Owl
stageNodes:
  - uuid: cover
    squareOne: true
    image: cover.png
    audio: cover.mp3
    okTransition: {actionNode: go, optionIndex: 0}
    controlSettings: {wheel: true, ok: true}
  - uuid: nest
    audio: nest.mp3
    controlSettings: {home: true}
actionNodes:
  - id: go
    options: [nest]
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPackAndGraph(t *testing.T) {
	src := testutils.WriteBook(t, t.TempDir(), "owl", story, map[string][]byte{
		"cover.png": testutils.PNG(t),
		"cover.mp3": []byte("ID3"),
		"nest.mp3":  []byte("ID3"),
	})

	dst := filepath.Join(t.TempDir(), "owl")
	assert.Contains(t, run(t, "pack", src, dst), "packed 2 stages")
	for _, f := range []string{"ni", "li", "ri", "si"} {
		assert.FileExists(t, filepath.Join(dst, f))
	}

	out := run(t, "graph", dst)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "-- \"ok #0\" -->")

	assert.Contains(t, run(t, "validate", dst), "2 stages, 1 choices, ok")
}

func TestList_Plain(t *testing.T) {
	root := t.TempDir()
	testutils.WriteBook(t, root, "owl", story, nil)

	t.Setenv("HOME", t.TempDir())
	out := run(t, "list", "--plain", "--library", root)
	assert.Contains(t, out, "| 1 | owl | Owl | 2 | 1 |  |")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "talebox version")
}
