package storage

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// testCounter gives each test its own in-memory database name so tests
// stay isolated.
var testCounter atomic.Int64

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:notes_test_%d?mode=memory&cache=shared", testCounter.Add(1))
	st, err := Open(dsn)
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive for
	// the whole test.
	st.db.SetMaxOpenConns(1)
	t.Cleanup(func() { st.Close() })
	return st
}

// setNoteTime pins a note's timestamp so date filters can be asserted.
func setNoteTime(t *testing.T, st *Store, noteID int64, ts string) {
	t.Helper()
	_, err := st.db.Exec("UPDATE notes SET timestamp = ? WHERE id = ?", ts, noteID)
	require.NoError(t, err)
}
