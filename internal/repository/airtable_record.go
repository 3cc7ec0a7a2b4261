package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keyaccount/backend/pkg/airtable"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches は ID 一括取得時の同時リクエスト数（Airtable は 5 req/s/base）
const maxConcurrentFetches = 5

func decodeRecord[T any](table string, raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", table, err)
	}
	return &v, nil
}

func getRecord[T any](ctx context.Context, c airtable.Client, table, id string) (*T, error) {
	raw, err := c.Get(ctx, table, id)
	if err != nil {
		if airtable.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeRecord[T](table, raw)
}

// getRecords は ids を並行取得し、ids と同じ順序で返す。1件でも失敗すれば全体がエラー。
func getRecords[T any](ctx context.Context, c airtable.Client, table string, ids []string) ([]*T, error) {
	out := make([]*T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := getRecord[T](gctx, c, table, id)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", table, id, err)
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func listRecords[T any](ctx context.Context, c airtable.Client, table string, opts airtable.ListOptions) ([]*T, error) {
	raws, err := c.List(ctx, table, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		rec, err := decodeRecord[T](table, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func createRecord[T any](ctx context.Context, c airtable.Client, table string, fields any) (*T, error) {
	raw, err := c.Create(ctx, table, fields)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](table, raw)
}
