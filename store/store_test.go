package store

import (
	"testing"

	"github.com/custodia-chain/router/helper/kvdb"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbracle/fastrlp"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(hclog.NewNullLogger(), kvdb.NewMemoryKV())
	require.NoError(t, err)

	return s
}

func TestStateRecordRLP(t *testing.T) {
	record := &StateRecord{
		Key:       types.StringToHash("0x0102"),
		NextNonce: 42,
		EscapedTo: types.StringToAddress("0x0a"),
	}

	ar := &fastrlp.Arena{}
	raw := record.MarshalWith(ar).MarshalTo(nil)

	decoded := &StateRecord{}
	require.NoError(t, decoded.UnmarshalRLP(raw))
	assert.Equal(t, record, decoded)
}

func TestActionRecordRLP(t *testing.T) {
	record := &ActionRecord{
		Nonce:  7,
		Tag:    "execute",
		Digest: types.StringToHash("0xbeef"),
	}

	ar := &fastrlp.Arena{}
	raw := record.MarshalWith(ar).MarshalTo(nil)

	decoded := &ActionRecord{}
	require.NoError(t, decoded.UnmarshalRLP(raw))
	assert.Equal(t, record, decoded)
}

func TestStateRoundTrip(t *testing.T) {
	s := newTestStore(t)

	// an empty store has no state
	_, err := s.ReadState()
	assert.ErrorIs(t, err, ErrNotFound)

	record := &StateRecord{
		Key:       types.StringToHash("0x0102"),
		NextNonce: 3,
		EscapedTo: types.ZeroAddress,
	}
	require.NoError(t, s.WriteState(record))

	read, err := s.ReadState()
	require.NoError(t, err)
	assert.Equal(t, record, read)
}

func TestWriteActionIsAtomic(t *testing.T) {
	s := newTestStore(t)

	state := &StateRecord{
		Key:       types.StringToHash("0x0102"),
		NextNonce: 2,
	}
	action := &ActionRecord{
		Nonce:  1,
		Tag:    "updateKey",
		Digest: types.StringToHash("0xbeef"),
	}

	require.NoError(t, s.WriteAction(state, action))

	readState, err := s.ReadState()
	require.NoError(t, err)
	assert.Equal(t, state, readState)

	readAction, err := s.ReadAction(1)
	require.NoError(t, err)
	assert.Equal(t, action, readAction)
}

func TestReadActionMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ReadAction(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadActionCached(t *testing.T) {
	s := newTestStore(t)

	action := &ActionRecord{Nonce: 1, Tag: "execute", Digest: types.StringToHash("0x01")}
	require.NoError(t, s.WriteAction(&StateRecord{NextNonce: 2}, action))

	first, err := s.ReadAction(1)
	require.NoError(t, err)

	// the second read is served from the cache
	second, err := s.ReadAction(1)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
