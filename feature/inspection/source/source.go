package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"spare-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// File is one spreadsheet to inspect.
type File interface {
	// Name is the file name used for model inference and logging.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

var extensions = []string{".xlsx", ".xlsm", ".xls"}

// IsSpreadsheet reports whether name looks like a workbook. Office lock
// files (~$name.xlsx) are excluded.
func IsSpreadsheet(name string) bool {
	base := path.Base(filepath.ToSlash(name))
	if strings.HasPrefix(base, "~$") {
		return false
	}
	return slices.Contains(extensions, strings.ToLower(path.Ext(base)))
}

// LocalFile is a spreadsheet on disk.
type LocalFile struct {
	Path string
}

// Name implements File.
func (f LocalFile) Name() string {
	return filepath.Base(f.Path)
}

// Open implements File.
func (f LocalFile) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Local expands paths into spreadsheet files. Directories are walked
// recursively; explicit file paths are kept whatever their extension.
func Local(paths ...string) ([]File, error) {
	var files []File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, LocalFile{Path: p})
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSpreadsheet(name) {
				found = append(found, name)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
		slices.Sort(found)
		for _, name := range found {
			files = append(files, LocalFile{Path: name})
		}
	}
	return files, nil
}

// MemoryFile is an uploaded spreadsheet.
type MemoryFile struct {
	FileName string
	Data     []byte
}

// Name implements File.
func (f MemoryFile) Name() string {
	return f.FileName
}

// Open implements File.
func (f MemoryFile) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// BucketFile is a spreadsheet object in the configured bucket.
type BucketFile struct {
	client storage.Client
	bucket string
	key    string
}

// NewBucketFile creates a File reading bucket/key.
func NewBucketFile(client storage.Client, bucket, key string) BucketFile {
	return BucketFile{client: client, bucket: bucket, key: key}
}

// Name implements File.
func (f BucketFile) Name() string {
	return path.Base(f.key)
}

// Key returns the object key.
func (f BucketFile) Key() string {
	return f.key
}

// Open implements File.
func (f BucketFile) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := f.client.GetObject(ctx, f.bucket, f.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", f.key, err)
	}
	return obj, nil
}

// Bucket lists the spreadsheets stored under prefix.
func Bucket(ctx context.Context, client storage.Client, bucket, prefix string) ([]File, error) {
	keys, err := storage.ListKeys(ctx, client, bucket, prefix)
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)

	var files []File
	for _, key := range keys {
		if IsSpreadsheet(key) {
			files = append(files, NewBucketFile(client, bucket, key))
		}
	}
	return files, nil
}
