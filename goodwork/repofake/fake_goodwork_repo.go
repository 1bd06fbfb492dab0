package fakegoodworkrepo

import (
	"context"
	"sync"

	"github.com/sounak286/RAKSHA-SATHI/goodwork"
)

var _ goodwork.Repo = (*FakeGoodWorkRepo)(nil)

type FakeGoodWorkRepo struct {
	entries []goodwork.Entry
	err     error
	lock    sync.RWMutex
}

func NewFakeGoodWorkRepo() *FakeGoodWorkRepo {
	return &FakeGoodWorkRepo{}
}

// FailInserts makes every subsequent Insert return err.
func (gr *FakeGoodWorkRepo) FailInserts(err error) {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	gr.err = err
}

func (gr *FakeGoodWorkRepo) Insert(_ context.Context, entry *goodwork.Entry) (int64, error) {
	gr.lock.Lock()
	defer gr.lock.Unlock()

	if gr.err != nil {
		return 0, gr.err
	}
	entry.ID = int64(len(gr.entries) + 1)
	gr.entries = append(gr.entries, *entry)
	return entry.ID, nil
}

func (gr *FakeGoodWorkRepo) Entries() []goodwork.Entry {
	gr.lock.RLock()
	defer gr.lock.RUnlock()
	return append([]goodwork.Entry(nil), gr.entries...)
}
