package service

import (
	"fmt"
	"time"

	"github.com/keyaccount/backend/internal/model"
)

// DateLayout は Airtable の Date フィールドの書式
const DateLayout = "2006-01-02"

// GroupByProject は updates を先頭の Project 参照ごとにまとめる。
// projectIDs の全 ID がキーとして必ず存在し（該当なしなら空スライス）、
// 要求されていないプロジェクトの update は捨てる。各リストの順序は updates の順序。
func GroupByProject(updates []*model.Update, projectIDs []string) map[string][]*model.Update {
	grouped := make(map[string][]*model.Update, len(projectIDs))
	for _, id := range projectIDs {
		grouped[id] = []*model.Update{}
	}
	for _, u := range updates {
		if u == nil {
			continue
		}
		pid := u.ProjectID()
		if pid == "" {
			continue
		}
		list, ok := grouped[pid]
		if !ok {
			continue
		}
		grouped[pid] = append(list, u)
	}
	return grouped
}

// SelectForDate はプロジェクトごとに Date が date と完全一致する最初の update を返す。
// 一致しなければ値は nil。
func SelectForDate(grouped map[string][]*model.Update, date string) map[string]*model.Update {
	selected := make(map[string]*model.Update, len(grouped))
	for pid, list := range grouped {
		selected[pid] = nil
		for _, u := range list {
			if u.Fields.Date == date {
				selected[pid] = u
				break
			}
		}
	}
	return selected
}

// FormatDate は YYYY-MM-DD または RFC 3339 の日時を YYYY-MM-DD に正規化する。
// RFC 3339 は UTC に変換してから日付部分を取る。
func FormatDate(s string) (string, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(DateLayout), nil
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// Today は loc における今日の日付を返す
func Today(loc *time.Location) string {
	return dateIn(time.Now(), loc)
}

func dateIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// RecentDates は today から遡る n 日分の日付を新しい順に返す。
// today が不正な場合は nil。
func RecentDates(today string, n int) []string {
	t, err := time.Parse(DateLayout, today)
	if err != nil || n <= 0 {
		return nil
	}
	dates := make([]string, n)
	for i := range n {
		dates[i] = t.AddDate(0, 0, -i).Format(DateLayout)
	}
	return dates
}
