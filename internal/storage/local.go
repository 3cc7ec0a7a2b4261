package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage はローカルファイルシステムにアップロードファイルを保存する Storage 実装。
type LocalStorage struct {
	baseDir   string // ディスク上のルートディレクトリ (例: "./uploads")
	urlPrefix string // HTTP で配信する際の URL プレフィックス (例: "http://localhost:4003/uploads")
}

// NewLocalStorage は LocalStorage を生成する。
func NewLocalStorage(baseDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// EnsureDir は保存先ディレクトリが無ければ作成する。
func (s *LocalStorage) EnsureDir() error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return &StorageError{Op: OpWrite, Path: s.baseDir, Err: err}
	}
	return nil
}

// Dir は保存先ディレクトリを返す。
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

func (s *LocalStorage) Save(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &StorageError{Op: OpWrite, Path: dest, Err: fmt.Errorf("mkdir: %w", err)}
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", &StorageError{Op: OpWrite, Path: dest, Err: err}
	}

	fw := &fileWriter{f: f}
	_, err = io.Copy(fw, data)
	if err == nil {
		err = f.Close()
		fw.err = err
	} else {
		f.Close()
	}
	if err != nil {
		os.Remove(dest)
		if fw.err != nil {
			return "", &StorageError{Op: OpWrite, Path: dest, Err: fw.err}
		}
		return "", err
	}

	url := s.urlPrefix + "/" + key
	return url, nil
}

// fileWriter は書き込み側のエラーを記録し、読み込み側のエラーと区別する
type fileWriter struct {
	f   *os.File
	err error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: OpWrite, Path: dest, Err: fmt.Errorf("remove: %w", err)}
	}
	return nil
}

// FileKey はアップロードファイルの保存名 "<unix ミリ秒>-<元のファイル名>" を返す。
// ディレクトリ部分は取り除く。
func FileKey(now time.Time, original string) string {
	name := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		name = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), name)
}
