package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes uploads to a directory served by the web process. Used for
// development and single-node deployments.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Put(_ context.Context, r io.Reader, in PutInput) (PutResult, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	key := uuid.NewString() + ext

	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return PutResult{}, err
	}

	dst, err := os.Create(filepath.Join(l.BaseDir, key))
	if err != nil {
		return PutResult{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return PutResult{}, err
	}

	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	// Keys are uuid+ext; reject anything that could escape the base dir.
	if key == "" || strings.ContainsAny(key, "/\\") {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(l.BaseDir, key))
}
