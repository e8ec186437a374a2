package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// LocalProvider serves objects from the local filesystem. Paths resolve
// relative to a base directory; an empty base uses them as given.
type LocalProvider struct {
	baseDir string
}

// NewLocalProvider creates a filesystem-backed provider.
func NewLocalProvider(baseDir string) *LocalProvider {
	return &LocalProvider{baseDir: baseDir}
}

func (p *LocalProvider) Type() string {
	return "local"
}

func (p *LocalProvider) resolve(path Path) string {
	if p.baseDir == "" || filepath.IsAbs(path.Key) {
		return path.Key
	}
	return filepath.Join(p.baseDir, path.Key)
}

func (p *LocalProvider) List(_ context.Context, prefix Path) ([]Object, error) {
	root := p.resolve(prefix)
	var objects []Object
	err := filepath.WalkDir(root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if fullPath == root && d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, fileObject(fullPath, info))
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return objects, nil
}

func (p *LocalProvider) Open(_ context.Context, path Path) (io.ReadCloser, error) {
	f, err := os.Open(p.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (p *LocalProvider) ReadBytes(ctx context.Context, path Path) ([]byte, error) {
	return readAll(ctx, p, path)
}

func (p *LocalProvider) Exists(_ context.Context, path Path) (bool, error) {
	_, err := os.Stat(p.resolve(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (p *LocalProvider) Stat(_ context.Context, path Path) (Object, error) {
	info, err := os.Stat(p.resolve(path))
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", path, err)
	}
	obj := fileObject(p.resolve(path), info)
	obj.Path = path
	return obj, nil
}

func (p *LocalProvider) Close() error {
	return nil
}

func fileObject(fullPath string, info fs.FileInfo) Object {
	path := ParsePath(fullPath)
	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return Object{
		Path:         path,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime(),
		ContentType:  contentType,
		IsDir:        info.IsDir(),
	}
}
