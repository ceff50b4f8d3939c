package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
)

// Block is one figure block found in a file.
type Block struct {
	// ID is "<stem>-NN", safe to use as a file stem.
	ID string
	// Source is "<file>#N", with N counted from 1.
	Source string
	Text   string
}

// ReadBlocks reads every figure block in the file at path.
func ReadBlocks(path string) ([]Block, error) {
	if err := geoerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, geoerrors.Wrap(geoerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBlocksFrom(f, path)
}

// ReadBlocksFrom reads the blocks in r. name labels the blocks and need
// not exist on disk.
func ReadBlocksFrom(r io.Reader, name string) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	text := string(data)

	stem := geoerrors.SanitizeFileStem(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if stem == "" {
		stem = "figure"
	}
	base := filepath.Base(name)

	found := figure.ExtractBlocks(text)
	if len(found) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return []Block{{ID: stem, Source: base, Text: text}}, nil
	}

	blocks := make([]Block, len(found))
	for i, b := range found {
		blocks[i] = Block{
			ID:     fmt.Sprintf("%s-%02d", stem, b.Index+1),
			Source: fmt.Sprintf("%s#%d", base, b.Index+1),
			Text:   b.Text,
		}
	}
	return blocks, nil
}
