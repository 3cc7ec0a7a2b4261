package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"time"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/storage"
)

// maxFieldSize はテキストフィールド 1 つあたりの読み込み上限
const maxFieldSize = 1 << 20

// BookHandler はアップロードサイドカーの /books ハンドラ。
// ファイルの種類・サイズ・内容は検証しない。
type BookHandler struct {
	books storage.BookStore
	files storage.Storage
	now   func() time.Time
}

// NewBookHandler は BookHandler を生成する
func NewBookHandler(books storage.BookStore, files storage.Storage) *BookHandler {
	return &BookHandler{books: books, files: files, now: time.Now}
}

// List は GET /books を処理する
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		slog.Error("read books failed", "error", err)
		var se *storage.StorageError
		if errors.As(err, &se) && se.Op == storage.OpParse {
			writeError(w, http.StatusInternalServerError, "Invalid JSON format in data file.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	slog.Debug("returning books", "count", len(books))
	writeJSON(w, http.StatusOK, books)
}

// bookUpload は 1 リクエスト分の受信結果
type bookUpload struct {
	fields map[string]string
	urls   map[string]string // "image" / "file" → 公開 URL
	keys   []string          // 保存したファイルのキー
}

// Create は POST /books を処理する。
// multipart の image / file パートはそれぞれ最初の 1 つだけをディスクへ直接書き出し、
// 2 つ目以降は読み捨てる。JSON ボディの場合はファイルなしのレコードとして扱う。
// title が空なら書き出したファイルを消して 400 を返す。
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	up, err := h.read(r)
	if err != nil {
		h.discard(r.Context(), up)
		var se *storage.StorageError
		if errors.As(err, &se) {
			slog.Error("store upload failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error.")
			return
		}
		slog.Warn("malformed request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	title := up.fields["title"]
	if title == "" {
		slog.Warn("book rejected: missing title", "files", len(up.keys))
		h.discard(r.Context(), up)
		writeError(w, http.StatusBadRequest, "Title is required.")
		return
	}

	book := model.Book{Title: title}
	if v, ok := up.fields["author"]; ok {
		book.Author = &v
	}
	if v, ok := up.fields["link"]; ok {
		book.Link = &v
	}
	if u, ok := up.urls["image"]; ok {
		book.ImageURL = &u
	}
	if u, ok := up.urls["file"]; ok {
		book.FileURL = &u
	}

	if err := h.books.Prepend(r.Context(), book); err != nil {
		slog.Error("save book failed", "title", book.Title, "error", err)
		var se *storage.StorageError
		switch {
		case errors.As(err, &se) && se.Op == storage.OpRead:
			writeError(w, http.StatusInternalServerError, "Failed to read data file.")
		case errors.As(err, &se) && se.Op == storage.OpParse:
			writeError(w, http.StatusInternalServerError, "Failed to parse books data.")
		case errors.As(err, &se):
			writeError(w, http.StatusInternalServerError, "Failed to save book.")
		default:
			writeError(w, http.StatusInternalServerError, "Server error.")
		}
		return
	}

	slog.Info("book saved", "title", book.Title, "image", book.ImageURL != nil, "file", book.FileURL != nil)
	writeJSON(w, http.StatusOK, book)
}

// read はリクエストボディを Content-Type に応じて読む。
// multipart でも JSON でもないボディはフィールドなしとして扱う。
func (h *BookHandler) read(r *http.Request) (*bookUpload, error) {
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		return readJSONBook(r.Body)
	}
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return &bookUpload{fields: map[string]string{}, urls: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return h.receive(r.Context(), mr)
}

// jsonBook は JSON ボディで受け付けるフィールド
type jsonBook struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Link   *string `json:"link"`
}

func readJSONBook(body io.Reader) (*bookUpload, error) {
	var in jsonBook
	if err := json.NewDecoder(io.LimitReader(body, maxFieldSize)).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	up := &bookUpload{fields: make(map[string]string), urls: make(map[string]string)}
	for name, v := range map[string]*string{"title": in.Title, "author": in.Author, "link": in.Link} {
		if v != nil {
			up.fields[name] = *v
		}
	}
	return up, nil
}

func (h *BookHandler) receive(ctx context.Context, mr *multipart.Reader) (*bookUpload, error) {
	up := &bookUpload{fields: make(map[string]string), urls: make(map[string]string)}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return up, nil
		}
		if err != nil {
			return up, err
		}

		name := part.FormName()
		switch {
		case name == "image" || name == "file":
			if _, seen := up.urls[name]; seen || part.FileName() == "" {
				_, _ = io.Copy(io.Discard, part)
				break
			}
			key := storage.FileKey(h.now(), part.FileName())
			if slices.Contains(up.keys, key) {
				// image と file が同名かつ同じミリ秒
				key = name + "-" + key
			}
			url, err := h.files.Save(ctx, key, part, part.Header.Get("Content-Type"))
			if err != nil {
				part.Close()
				return up, err
			}
			slog.Debug("upload stored", "field", name, "key", key)
			up.keys = append(up.keys, key)
			up.urls[name] = url
		case part.FileName() == "":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
			if err != nil {
				part.Close()
				return up, err
			}
			if _, seen := up.fields[name]; !seen {
				up.fields[name] = string(value)
			}
		default:
			_, _ = io.Copy(io.Discard, part)
		}
		part.Close()
	}
}

// discard は受信済みのファイルを削除する
func (h *BookHandler) discard(ctx context.Context, up *bookUpload) {
	if up == nil {
		return
	}
	for _, key := range up.keys {
		if err := h.files.Delete(ctx, key); err != nil {
			slog.Warn("remove rejected upload failed", "key", key, "error", err)
		}
	}
}
