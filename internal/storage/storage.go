package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/keyaccount/backend/internal/model"
)

// Storage はアップロードファイルの保存・削除を抽象化するインターフェース。
// ローカルファイルシステム実装の他、S3 / Cloudflare R2 等に差し替え可能。
type Storage interface {
	// Save はファイルを保存し、公開 URL を返す。
	// key はストレージ内の一意パス (例: "1700000000000-cover.png")。
	// 保存先への書き込み失敗は *StorageError、data の読み込み失敗はそのまま返す。
	// どちらの場合も書きかけのファイルは残さない。
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete は key に対応するファイルを削除する。
	Delete(ctx context.Context, key string) error
}

// BookStore は書籍レコードの一覧を保持するストア。新しいものが先頭。
type BookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	// Prepend は一覧を読み込み、book を先頭に追加して書き戻す
	Prepend(ctx context.Context, book model.Book) error
}

// ディスク操作の種類 (StorageError.Op)
const (
	OpRead  = "read"
	OpParse = "parse"
	OpWrite = "write"
)

// StorageError はディスクの読み書き・JSON 解析の失敗
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
