package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/keyaccount/backend/internal/model"
)

// JSONBookStore は書籍一覧を 1 つの JSON 配列ファイルに保持する BookStore 実装。
//
// Prepend は「全件読み込み → 先頭に追加 → 全体を書き戻し」を行う。locking が
// false の場合この一連の処理は排他されず、同時に 2 件の Prepend が走ると
// 両方が同じ配列を読み、後から書いた方が先の書き込みを上書きする（更新の消失）。
// locking が true の場合はプロセス内 mutex とファイルロックで一連の処理を直列化する。
type JSONBookStore struct {
	path    string
	locking bool
	mu      sync.Mutex
}

// NewJSONBookStore は JSONBookStore を生成する。
func NewJSONBookStore(path string, locking bool) *JSONBookStore {
	return &JSONBookStore{path: path, locking: locking}
}

// EnsureFile はデータファイルのディレクトリを作成し、ファイルが無ければ空配列で初期化する。
// 既存のファイルには触れない。
func (s *JSONBookStore) EnsureFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: OpWrite, Path: dir, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	if _, err := f.WriteString("[]"); err != nil {
		f.Close()
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	return nil
}

// List はファイルの配列を返す。空ファイルは空配列、ファイルが無ければ読み込みエラー。
func (s *JSONBookStore) List(_ context.Context) ([]model.Book, error) {
	return s.read()
}

// Prepend は book を配列の先頭に追加してファイルを書き直す。
func (s *JSONBookStore) Prepend(_ context.Context, book model.Book) error {
	if s.locking {
		s.mu.Lock()
		defer s.mu.Unlock()

		unlock, err := lockFile(s.path + ".lock")
		if err != nil {
			return &StorageError{Op: OpWrite, Path: s.path, Err: err}
		}
		defer unlock()
	}

	books, err := s.read()
	if err != nil {
		return err
	}
	books = append([]model.Book{book}, books...)
	return s.write(books)
}

func (s *JSONBookStore) read() ([]model.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StorageError{Op: OpRead, Path: s.path, Err: err}
	}
	books := []model.Book{}
	if len(bytes.TrimSpace(data)) == 0 {
		return books, nil
	}
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, &StorageError{Op: OpParse, Path: s.path, Err: err}
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// write は一時ファイルに書いてから rename で置き換える。読み手が書きかけの内容を見ることはない。
func (s *JSONBookStore) write(books []model.Book) error {
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: OpWrite, Path: s.path, Err: err}
	}
	return nil
}
