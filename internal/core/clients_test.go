package core

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryworks/trackhub/internal/config"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

// testDay is the frozen clock used across engine tests.
var testDay = time.Date(2025, 8, 25, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		Sheets: config.SheetsConfig{
			Clients: "Clients",
			Pets:    "Pets",
			Orders:  "Supplies_Orders",
			Lines:   "Supplies_Lines",
			Audit:   "_sys_Audit",
		},
		Supplies: config.SuppliesConfig{
			OrderIDFloor:   "200000000000",
			FleaTickBrands: []string{"Frontline", "Advantix"},
		},
		Lock: config.LockConfig{Mode: "lenient", Wait: time.Second},
	}
	s := NewService(tabular.NewMemory(), cfg, slog.Default())
	s.now = func() time.Time { return testDay }
	return s
}

func TestSaveClient_InsertThenSearchByPhone(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saved, err := s.SaveClient(ctx, Record{
		"firstName": "A",
		"lastName":  "B",
		"phone":     "(716) 555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, saved.Action)
	assert.Equal(t, "C-20250825-001", saved.ClientID)

	res, err := s.SearchClients(ctx, ClientQuery{PhoneRaw: "7165550100"})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, saved.ClientID, res.Client[schema.ClientID])
	assert.Equal(t, saved.RowID, res.Client["RowId"])
	assert.Equal(t, "7165550100", res.Client[schema.PhoneNormalized])
}

func TestSaveClient_InsufficientDataRefused(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.SaveClient(ctx, Record{"city": "Buffalo"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	tbl, err := s.store.Table(ctx, "Clients")
	require.NoError(t, err)
	count, err := tbl.RowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSaveClient_SecondSaveSamePhoneUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "phone": "716-555-0100"})
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, first.Action)

	second, err := s.SaveClient(ctx, Record{"firstName": "A2", "phone": "(716) 555 0100"})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, second.Action)
	assert.Equal(t, first.RowID, second.RowID)
	assert.Equal(t, first.ClientID, second.ClientID)

	res, err := s.SearchClients(ctx, ClientQuery{PhoneRaw: "7165550100"})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "A2", res.Client[schema.FirstName])
	// Fields absent from the second payload survive the update.
	assert.Equal(t, "B", res.Client[schema.LastName])
}

func TestSaveClient_GeneratedIDsIncreaseWithinDay(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	a, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "A", "email": "a@example.org"})
	require.NoError(t, err)
	b, err := s.SaveClient(ctx, Record{"firstName": "B", "lastName": "B", "email": "b@example.org"})
	require.NoError(t, err)

	assert.Equal(t, "C-20250825-001", a.ClientID)
	assert.Equal(t, "C-20250825-002", b.ClientID)
}

func TestSaveClient_CanonicalKeyBeatsAlias(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saved, err := s.SaveClient(ctx, Record{
		"FirstName": "Canonical",
		"firstName": "Alias",
		"lastName":  "B",
		"email":     "Dup@Example.org ",
	})
	require.NoError(t, err)

	res, err := s.SearchClients(ctx, ClientQuery{ClientID: saved.ClientID})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "Canonical", res.Client[schema.FirstName])
	assert.Equal(t, "dup@example.org", res.Client[schema.EmailNormalized])
}

func TestSaveClient_ExplicitRowIDTargetsRow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saved, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)

	updated, err := s.SaveClient(ctx, Record{"rowId": saved.RowID, "firstName": "A3"})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, updated.Action)
	assert.Equal(t, saved.ClientID, updated.ClientID)
}

func TestSaveClient_SearchByClientIDIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saved, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)

	res, err := s.SearchClients(ctx, ClientQuery{ClientID: "c-20250825-001"})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, saved.ClientID, res.Client[schema.ClientID])
}

func TestSearchClients_EmptyQueryShortCircuits(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	res, err := s.SearchClients(ctx, ClientQuery{})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestSaveClient_StrictLockModeRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.cfg.Lock = config.LockConfig{Mode: "strict", Wait: 50 * time.Millisecond}

	release, ok := s.store.Locker().TryLock(ctx, time.Second)
	require.True(t, ok)
	defer release()

	_, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	assert.ErrorIs(t, err, ErrLockUnavailable)
}

func TestSaveClient_LenientModeProceedsUnlocked(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.cfg.Lock = config.LockConfig{Mode: "lenient", Wait: 50 * time.Millisecond}

	release, ok := s.store.Locker().TryLock(ctx, time.Second)
	require.True(t, ok)
	defer release()

	saved, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, saved.Action)
}

func TestSaveClient_InsertReusesBlankedRow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)
	_, err = s.SaveClient(ctx, Record{"firstName": "C", "lastName": "D", "email": "c@example.org"})
	require.NoError(t, err)

	// Blank out the first row's probe fields, as a manual cleanup would.
	tbl, err := s.store.Table(ctx, "Clients")
	require.NoError(t, err)
	header, err := tbl.Header(ctx)
	require.NoError(t, err)
	require.NoError(t, tbl.WriteRow(ctx, 1, make([]string, len(header))))

	third, err := s.SaveClient(ctx, Record{"firstName": "E", "lastName": "F", "email": "e@example.org"})
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, third.Action)
	assert.Equal(t, first.RowID, third.RowID)
}

func TestGenerateClientID_SkipsForeignDays(t *testing.T) {
	header := []string{schema.ClientID}
	ix := tabular.NewIndex(header)
	rows := [][]string{
		{"C-20250824-007"},
		{"C-20250825-002"},
		{"not-an-id"},
	}
	got := generateClientID(ix, rows, testDay)
	assert.Equal(t, "C-20250825-003", got)
}
