// Package localfs keeps orders on disk when the primary store is unavailable.
// Each queued order is one JSON file; the directory is the source of truth so
// queued orders survive restarts.
package localfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/textilua/promoshop/internal/domain"
)

type Queue struct {
	dir string
}

func New(dir string) (*Queue, error) {
	if dir == "" {
		dir = "fallback-orders"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Queue{dir: dir}, nil
}

func (q *Queue) Enqueue(o *domain.Order) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(q.dir, q.filename(o.ID))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (q *Queue) Pending() ([]domain.Order, error) {
	entries, err := os.ReadDir(q.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var orders []domain.Order
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(q.dir, name))
		if err != nil {
			return nil, err
		}
		var o domain.Order
		if err := json.Unmarshal(data, &o); err != nil {
			// A corrupt file must not wedge the whole queue.
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (q *Queue) Remove(id uuid.UUID) error {
	err := os.Remove(filepath.Join(q.dir, q.filename(id)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (q *Queue) filename(id uuid.UUID) string {
	return fmt.Sprintf("order-%s.json", id)
}
