package cooldown

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/galihrivanto/tribfaucet/storage"
)

const (
	// Period is how long a client must wait after a successful claim.
	Period = 24 * time.Hour

	// StorageKey holds the millisecond epoch of the last successful claim.
	StorageKey = "lastClaimTime"
)

// ErrInvalidRecord means the stored value is not a millisecond epoch.
var ErrInvalidRecord = errors.New("invalid last claim record")

// Store holds the time of the last successful claim.
type Store interface {
	Get() (time.Time, bool, error)
	Set(t time.Time) error
	Clear() error
}

type kvStore struct {
	kv storage.Store
}

// NewStore keeps the last claim time under StorageKey in kv.
func NewStore(kv storage.Store) Store {
	return &kvStore{kv: kv}
}

func (s *kvStore) Get() (time.Time, bool, error) {
	v, ok, err := s.kv.GetItem(StorageKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %q", ErrInvalidRecord, v)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *kvStore) Set(t time.Time) error {
	return s.kv.SetItem(StorageKey, strconv.FormatInt(t.UnixMilli(), 10))
}

func (s *kvStore) Clear() error {
	return s.kv.RemoveItem(StorageKey)
}
