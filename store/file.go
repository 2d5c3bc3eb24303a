package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rushteam/artrec/core"
)

// FileStore 以目录为根、以相对路径为 key 存放 JSON 文档，
// 例如 key "embeddings/article_vectors.json"。
// 写入先落临时文件再 rename，读者不会看到写了一半的文档。TTL 被忽略。
type FileStore struct {
	root string
}

var _ core.Store = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	if root == "" {
		root = "."
	}
	return &FileStore{root: root}
}

func (f *FileStore) Name() string { return "file" }

// Root 返回根目录
func (f *FileStore) Root() string { return f.root }

func (f *FileStore) path(key string) (string, error) {
	clean := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(clean) {
		return "", core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("store: key %q escapes the store root", key))
	}
	return filepath.Join(f.root, clean), nil
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrStoreNotFound
	}
	return data, err
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (f *FileStore) Close() error { return nil }
