package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/render"
)

// MetadataExt is the suffix of the metadata sidecar.
const MetadataExt = ".meta.json"

// WriteFileAtomic replaces path with data. The data is written to a
// temporary file in the same directory, synced, and renamed over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// WriteArtifacts writes every artifact as dir/stem.<ext> and the metadata
// as dir/stem.meta.json, creating dir if needed. It returns the written
// paths in format order, sidecar last.
func WriteArtifacts(dir, stem string, artifacts map[render.Format][]byte, meta render.Metadata) ([]string, error) {
	if err := geoerrors.ValidateFileStem(stem); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var paths []string
	for _, f := range render.Formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		p := filepath.Join(dir, stem+f.Ext())
		if err := WriteFileAtomic(p, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("encode metadata: %w", err)
	}
	p := filepath.Join(dir, stem+MetadataExt)
	if err := WriteFileAtomic(p, append(data, '\n'), 0o644); err != nil {
		return paths, err
	}
	return append(paths, p), nil
}
