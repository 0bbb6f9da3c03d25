// Package store is the keyed account store. Records are JSON documents; an
// Update either commits every write its callback made or none of them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrConflict means another writer touched a watched key first. Nothing
	// was committed; the caller may resubmit.
	ErrConflict = errors.New("store: concurrent modification")
)

// Tx is the view an Update or View callback works against.
type Tx interface {
	// Get decodes key into v and reports whether it existed.
	Get(key string, v any) (bool, error)
	// Put buffers v for key. Writes are invisible to other callers until commit.
	Put(key string, v any) error
}

type Store interface {
	// Update runs fn over keys and commits its writes iff fn returns nil.
	Update(ctx context.Context, keys []string, fn func(Tx) error) error
	// View runs fn over a consistent read of keys. Put fails inside View.
	View(ctx context.Context, keys []string, fn func(Tx) error) error
	Close() error
}

var errReadOnly = errors.New("store: write in read-only view")

// bufferedTx layers pending writes over a read function.
type bufferedTx struct {
	read     func(key string) ([]byte, bool, error)
	writes   map[string][]byte
	order    []string
	readOnly bool
}

func newBufferedTx(read func(string) ([]byte, bool, error), readOnly bool) *bufferedTx {
	return &bufferedTx{read: read, writes: make(map[string][]byte), readOnly: readOnly}
}

func (t *bufferedTx) Get(key string, v any) (bool, error) {
	data, ok := t.writes[key]
	if !ok {
		var err error
		data, ok, err = t.read(key)
		if err != nil {
			return false, fmt.Errorf("get %s: %w", key, err)
		}
		if !ok {
			return false, nil
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (t *bufferedTx) Put(key string, v any) error {
	if t.readOnly {
		return errReadOnly
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, seen := t.writes[key]; !seen {
		t.order = append(t.order, key)
	}
	t.writes[key] = data
	return nil
}
