package model

// Book はアップロードサイドカーが保存する書籍レコード。
// ID を持たず、追加のみ（更新・削除なし）。
type Book struct {
	Title    string  `json:"title"`
	Author   *string `json:"author,omitempty"` // 送られなかった場合のみ省略
	Link     *string `json:"link,omitempty"`
	ImageURL *string `json:"imageURL"`
	FileURL  *string `json:"fileURL"`
}
