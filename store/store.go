package store

import (
	"errors"
	"fmt"

	"github.com/custodia-chain/router/helper/kvdb"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
	"github.com/umbracle/fastrlp"
)

var (
	ErrNotFound = errors.New("not found")
)

var (
	// stateKey is the key of the engine state record
	stateKey = []byte("s")

	// actionPrefix prefixes per-nonce action records
	actionPrefix = []byte("a")
)

const actionCacheSize = 512

// StateRecord is the persistent engine state: the authoritative key,
// the next nonce, and the escape target (zero when unset)
type StateRecord struct {
	Key       types.Hash
	NextNonce uint64
	EscapedTo types.Address
}

func (s *StateRecord) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewCopyBytes(s.Key.Bytes()))
	v.Set(ar.NewUint(s.NextNonce))
	v.Set(ar.NewCopyBytes(s.EscapedTo.Bytes()))

	return v
}

func (s *StateRecord) UnmarshalRLP(b []byte) error {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(b)
	if err != nil {
		return err
	}

	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 3 {
		return fmt.Errorf("incorrect number of elements to decode state, expected 3 but found %d",
			len(elems))
	}

	if err = elems[0].GetHash(s.Key[:]); err != nil {
		return err
	}

	if s.NextNonce, err = elems[1].GetUint64(); err != nil {
		return err
	}

	if err = elems[2].GetAddr(s.EscapedTo[:]); err != nil {
		return err
	}

	return nil
}

// ActionRecord is one consumed authorized action, kept for off-chain
// reconciliation and replay inspection
type ActionRecord struct {
	Nonce  uint64
	Tag    string
	Digest types.Hash
}

func (a *ActionRecord) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(a.Nonce))
	v.Set(ar.NewCopyBytes([]byte(a.Tag)))
	v.Set(ar.NewCopyBytes(a.Digest.Bytes()))

	return v
}

func (a *ActionRecord) UnmarshalRLP(b []byte) error {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(b)
	if err != nil {
		return err
	}

	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 3 {
		return fmt.Errorf("incorrect number of elements to decode action, expected 3 but found %d",
			len(elems))
	}

	if a.Nonce, err = elems[0].GetUint64(); err != nil {
		return err
	}

	tag, err := elems[1].GetBytes(nil)
	if err != nil {
		return err
	}

	a.Tag = string(tag)

	if err = elems[2].GetHash(a.Digest[:]); err != nil {
		return err
	}

	return nil
}

var (
	parserPool fastrlp.ParserPool
	arenaPool  fastrlp.ArenaPool
)

// Store persists engine state and consumed-action records
type Store struct {
	logger hclog.Logger
	db     kvdb.KVBatchStorage

	actionCache *lru.Cache
}

func NewStore(logger hclog.Logger, db kvdb.KVBatchStorage) (*Store, error) {
	cache, err := lru.New(actionCacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		logger:      logger.Named("store"),
		db:          db,
		actionCache: cache,
	}, nil
}

// ReadState reads the engine state record, ErrNotFound if none was
// ever written
func (s *Store) ReadState() (*StateRecord, error) {
	data, ok, err := s.db.Get(stateKey)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}

	record := &StateRecord{}
	if err := record.UnmarshalRLP(data); err != nil {
		return nil, err
	}

	return record, nil
}

// WriteAction atomically writes the consumed action together with the
// engine state it produced
func (s *Store) WriteAction(state *StateRecord, action *ActionRecord) error {
	ar := arenaPool.Get()
	defer arenaPool.Put(ar)

	batch := s.db.Batch()
	batch.Set(stateKey, state.MarshalWith(ar).MarshalTo(nil))
	batch.Set(actionKey(action.Nonce), action.MarshalWith(ar).MarshalTo(nil))

	if err := batch.Write(); err != nil {
		return err
	}

	s.actionCache.Add(action.Nonce, action)

	return nil
}

// WriteState writes the engine state record alone. Used at
// initialization, before any action was consumed.
func (s *Store) WriteState(state *StateRecord) error {
	ar := arenaPool.Get()
	defer arenaPool.Put(ar)

	return s.db.Set(stateKey, state.MarshalWith(ar).MarshalTo(nil))
}

// ReadAction reads the action consumed at a nonce
func (s *Store) ReadAction(nonce uint64) (*ActionRecord, error) {
	if cached, ok := s.actionCache.Get(nonce); ok {
		return cached.(*ActionRecord), nil //nolint:forcetypeassert
	}

	data, ok, err := s.db.Get(actionKey(nonce))
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}

	record := &ActionRecord{}
	if err := record.UnmarshalRLP(data); err != nil {
		return nil, err
	}

	s.actionCache.Add(nonce, record)

	return record, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func actionKey(nonce uint64) []byte {
	key := make([]byte, 0, len(actionPrefix)+8)
	key = append(key, actionPrefix...)

	for shift := 56; shift >= 0; shift -= 8 {
		key = append(key, byte(nonce>>shift))
	}

	return key
}
