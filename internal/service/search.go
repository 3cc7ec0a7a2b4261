package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// searchRank は fields のうち query を大文字小文字を無視して部分文字列として含むものの、
// 最小の編集距離を返す。空の query は距離 0 で常に一致。
func searchRank(query string, fields ...string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, true
	}
	best := -1
	for _, f := range fields {
		if !strings.Contains(strings.ToLower(f), q) {
			continue
		}
		d := fuzzy.RankMatchFold(q, f)
		if d < 0 {
			d = len(f)
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best, best >= 0
}

// filterRanked は keep と検索語で items を絞り込み、検索語に近い順に並べる。
// 同じ距離のものは元の順序を保つ。
func filterRanked[T any](items []T, query string, fields func(T) []string, keep func(T) bool) []T {
	type ranked struct {
		item T
		rank int
	}
	matched := make([]ranked, 0, len(items))
	for _, it := range items {
		if !keep(it) {
			continue
		}
		rank, ok := searchRank(query, fields(it)...)
		if !ok {
			continue
		}
		matched = append(matched, ranked{item: it, rank: rank})
	}
	slices.SortStableFunc(matched, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })

	out := make([]T, len(matched))
	for i, m := range matched {
		out[i] = m.item
	}
	return out
}

// matchesExact は want が空か、got と大文字小文字を無視して一致するかを返す
func matchesExact(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// normalizeChoice は value を options の表記に揃える。該当しなければ false。
func normalizeChoice(value string, options []string) (string, bool) {
	i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, value) })
	if i < 0 {
		return "", false
	}
	return options[i], true
}
