package model

import (
	"slices"
	"time"
)

// Session はログイン中ユーザーの状態。ログイン時にユーザーレコードから作られ、
// レコード作成時に ID が追記され、ログアウトで破棄される。
type Session struct {
	ID           string    `json:"id"`
	UserRecordID string    `json:"user_record_id"`
	UserName     string    `json:"user_name"`
	AccountIDs   []string  `json:"account_ids"`
	ProjectIDs   []string  `json:"project_ids"`
	UpdateIDs    []string  `json:"update_ids"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired は now 時点で期限切れかを返す
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AppendID は ids に id を重複なく追加したスライスを返す
func AppendID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(slices.Clone(ids), id)
}

// RemoveID は ids から id を除いたスライスを返す
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
