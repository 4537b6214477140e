package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/go-bzip2/internal/batch"
	"github.com/blacktop/go-bzip2/pkg/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	data := []byte(strings.Repeat("process file round trip\n", 2000))
	require.NoError(t, os.WriteFile(input, data, 0o644))

	job := batch.Job{Input: input, Output: compressedName(input)}
	res := processFile(context.Background(), job, fileOptions{}, compressStream(bzip2.Fastest))
	require.NoError(t, res.Err)
	assert.Equal(t, int64(len(data)), res.InSize)
	assert.Equal(t, 1, res.Blocks)
	assert.NoFileExists(t, input)

	job = batch.Job{Input: job.Output, Output: decompressedName(job.Output)}
	res = processFile(context.Background(), job, fileOptions{keep: true}, decompressStream(bzip2.MultiStream()))
	require.NoError(t, res.Err)
	assert.Equal(t, int64(len(data)), res.OutSize)
	assert.FileExists(t, job.Input)

	got, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, got))

	// the output exists now, so a second run must refuse to overwrite it
	res = processFile(context.Background(), job, fileOptions{keep: true}, decompressStream())
	assert.Error(t, res.Err)
	res = processFile(context.Background(), job, fileOptions{keep: true, force: true}, decompressStream())
	assert.NoError(t, res.Err)
}

func TestProcessFileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.bz2")
	require.NoError(t, os.WriteFile(input, []byte("BZh9 not really"), 0o644))

	job := batch.Job{Input: input, Output: decompressedName(input)}
	res := processFile(context.Background(), job, fileOptions{}, decompressStream())
	assert.Error(t, res.Err)
	assert.NoFileExists(t, job.Output)
	assert.FileExists(t, input)
}
