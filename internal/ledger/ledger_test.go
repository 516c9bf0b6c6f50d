package ledger

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onasu66/totalcash/internal/types"
)

// memStore keeps the snapshot in memory so tests can steer persistence.
type memStore struct {
	state   State
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() (State, error) {
	if m.loadErr != nil {
		return State{}, m.loadErr
	}
	return m.state, nil
}

func (m *memStore) Save(s State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = s
	m.saves++
	return nil
}

// testClock is a settable wall clock.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) set(value string) {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	c.t = t
}

func newTestLedger(t *testing.T, at string) (*Ledger, *memStore, *testClock) {
	t.Helper()
	clock := &testClock{}
	clock.set(at)
	store := &memStore{}
	return New(store, log.New(io.Discard), clock.now), store, clock
}

func tx(operator, store, content string, amount int) types.Transaction {
	return types.Transaction{Operator: operator, Store: store, Content: content, Amount: amount}
}

func TestBusinessDate(t *testing.T) {
	tests := []struct {
		at   string
		want string
	}{
		{"2024-05-10 06:59", "2024-05-09"},
		{"2024-05-10 07:00", "2024-05-10"},
		{"2024-05-10 23:30", "2024-05-10"},
		{"2024-05-10 00:00", "2024-05-09"},
	}

	for _, tt := range tests {
		at, err := time.Parse("2006-01-02 15:04", tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, BusinessDate(at), "at %s", tt.at)
	}
}

func TestAppendStampsTimeAndPersists(t *testing.T) {
	led, store, _ := newTestLedger(t, "2024-05-10 19:00")

	recorded := led.Append(tx("田中", "ストアA", "2.3000❤", 16000))
	assert.Equal(t, "19:00", recorded.Time)

	day := led.CurrentDay()
	assert.Equal(t, "2024-05-10", day.Date)
	require.Len(t, day.Transactions, 1)
	assert.Equal(t, recorded, day.Transactions[0])
	assert.Greater(t, store.saves, 0)
}

func TestDeleteAt(t *testing.T) {
	led, _, _ := newTestLedger(t, "2024-05-10 19:00")

	led.Append(tx("a", "X", "1.1000", 1000))
	led.Append(tx("b", "Y", "1.2000", 2000))

	require.NoError(t, led.DeleteAt(0))
	day := led.CurrentDay()
	require.Len(t, day.Transactions, 1)
	assert.Equal(t, "Y", day.Transactions[0].Store)

	assert.Error(t, led.DeleteAt(5))
	assert.Error(t, led.DeleteAt(-1))
}

func TestRolloverArchivesLiveDay(t *testing.T) {
	led, _, clock := newTestLedger(t, "2024-05-10 06:59")

	// Before 07:00 the recording belongs to the previous business day.
	led.Append(tx("田中", "ストアA", "1.1000", 1000))
	assert.Equal(t, "2024-05-09", led.CurrentDay().Date)

	clock.set("2024-05-10 07:01")

	day := led.CurrentDay()
	assert.Equal(t, "2024-05-10", day.Date)
	assert.Empty(t, day.Transactions)

	archived, ok := led.Day("2024-05-09")
	require.True(t, ok)
	require.Len(t, archived.Transactions, 1)
	assert.Equal(t, 1000, archived.Transactions[0].Amount)
}

func TestRolloverSkipsEmptyLiveDay(t *testing.T) {
	led, _, clock := newTestLedger(t, "2024-05-10 10:00")

	clock.set("2024-05-11 10:00")
	led.CurrentDay()

	assert.Empty(t, led.ListArchive())
}

func TestRetentionPrunesOldArchive(t *testing.T) {
	led, _, clock := newTestLedger(t, "2024-05-10 10:00")

	led.Append(tx("a", "X", "1.1000", 1000))

	// Roll forward one day at a time; each rollover re-checks retention.
	for _, at := range []string{"2024-05-11 10:00", "2024-05-12 10:00", "2024-05-13 10:00", "2024-05-14 10:00"} {
		clock.set(at)
		led.Append(tx("a", "X", "1.1000", 1000))
	}

	_, ok := led.Day("2024-05-10")
	assert.False(t, ok, "2024-05-10 is more than 3 days before 2024-05-14")
	_, ok = led.Day("2024-05-11")
	assert.True(t, ok)
	_, ok = led.Day("2024-05-13")
	assert.True(t, ok)
}

func TestArchiveCurrentDayKeepsCopyWithoutClearing(t *testing.T) {
	led, _, _ := newTestLedger(t, "2024-05-10 19:00")

	led.Append(tx("a", "X", "1.1000", 1000))
	led.ArchiveCurrentDay()

	// Live day untouched.
	assert.Len(t, led.CurrentDay().Transactions, 1)

	days := led.ListArchive()
	require.Len(t, days, 1)
	assert.Equal(t, "2024-05-10", days[0].Date)

	// Idempotent: a repeat call overwrites the copy.
	led.Append(tx("b", "Y", "1.2000", 2000))
	led.ArchiveCurrentDay()
	days = led.ListArchive()
	require.Len(t, days, 1)
	assert.Len(t, days[0].Transactions, 2)
}

func TestListArchiveNewestFirst(t *testing.T) {
	led, _, clock := newTestLedger(t, "2024-05-10 10:00")

	led.Append(tx("a", "X", "1.1000", 1000))
	clock.set("2024-05-11 10:00")
	led.Append(tx("a", "X", "1.1000", 1000))
	clock.set("2024-05-12 10:00")
	led.CurrentDay()

	days := led.ListArchive()
	require.Len(t, days, 2)
	assert.Equal(t, "2024-05-11", days[0].Date)
	assert.Equal(t, "2024-05-10", days[1].Date)
}

func TestDeleteArchived(t *testing.T) {
	led, _, clock := newTestLedger(t, "2024-05-10 10:00")

	led.Append(tx("a", "X", "1.1000", 1000))
	clock.set("2024-05-11 10:00")

	require.NoError(t, led.DeleteArchived("2024-05-10"))
	assert.Empty(t, led.ListArchive())

	assert.Error(t, led.DeleteArchived("2024-05-10"))
}

func TestLoadFailureStartsFresh(t *testing.T) {
	clock := &testClock{}
	clock.set("2024-05-10 10:00")
	store := &memStore{loadErr: errors.New("corrupt snapshot")}

	led := New(store, log.New(io.Discard), clock.now)
	day := led.CurrentDay()
	assert.Equal(t, "2024-05-10", day.Date)
	assert.Empty(t, day.Transactions)
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	clock := &testClock{}
	clock.set("2024-05-10 10:00")
	store := &memStore{saveErr: errors.New("disk full")}

	led := New(store, log.New(io.Discard), clock.now)
	led.Append(tx("a", "X", "1.1000", 1000))

	// The failed write is a warning; the session keeps the transaction.
	assert.Len(t, led.CurrentDay().Transactions, 1)
}

func TestRestartResumesFromSnapshot(t *testing.T) {
	led, store, clock := newTestLedger(t, "2024-05-10 19:00")
	led.Append(tx("田中", "ストアA", "2.3000❤", 16000))

	// A second ledger over the same store sees the same state.
	led2 := New(store, log.New(io.Discard), clock.now)
	day := led2.CurrentDay()
	assert.Equal(t, "2024-05-10", day.Date)
	require.Len(t, day.Transactions, 1)
	assert.Equal(t, 16000, day.Transactions[0].Amount)
}
