package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHygiene_FlagsMissingCriticalsAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	// Complete record.
	_, err := s.SaveClient(ctx, Record{
		"firstName": "A", "lastName": "B", "zip": "14211",
		"phone": "716-555-0100",
	})
	require.NoError(t, err)

	// Missing ZIP, same phone as the first (duplicate suspect). RowId
	// forces a fresh row so the upsert does not merge them.
	_, err = s.SaveClient(ctx, Record{
		"rowId": "2", "firstName": "C", "lastName": "D",
		"phone": "(716) 555-0100",
	})
	require.NoError(t, err)

	// Contact-only record, no names.
	_, err = s.SaveClient(ctx, Record{"rowId": "3", "email": "x@example.org"})
	require.NoError(t, err)

	report, err := s.Hygiene(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.RowsScanned)

	require.Len(t, report.MissingCriticals, 2)
	assert.Equal(t, "2", report.MissingCriticals[0].RowID)
	assert.Contains(t, report.MissingCriticals[0].Missing, "ZIP")
	assert.Equal(t, "3", report.MissingCriticals[1].RowID)
	assert.Contains(t, report.MissingCriticals[1].Missing, "FirstName")

	require.Len(t, report.DuplicateGroups, 1)
	assert.Equal(t, "phone", report.DuplicateGroups[0].Field)
	assert.Equal(t, "7165550100", report.DuplicateGroups[0].Value)
	assert.Equal(t, []string{"1", "2"}, report.DuplicateGroups[0].RowIDs)
}

func TestHygiene_EmptyTable(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	report, err := s.Hygiene(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.RowsScanned)
	assert.Empty(t, report.MissingCriticals)
	assert.Empty(t, report.DuplicateGroups)
}

func TestAuditTrail_RecordsMutationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saved, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)
	_, err = s.SavePets(ctx, PetBatch{ClientID: saved.ClientID, Pets: []Pet{{Name: "Rex"}}})
	require.NoError(t, err)

	entries, err := s.AuditTrail(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pets_saved", entries[0].Action)
	assert.Equal(t, "client_inserted", entries[1].Action)
	assert.Equal(t, saved.ClientID, entries[1].EntityID)
	assert.Equal(t, "system", entries[0].Actor)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[0].CreatedAt)
}

func TestAuditTrail_LimitReturnsNewest(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.SaveClient(ctx, Record{"firstName": "A", "lastName": "B", "email": "a@example.org"})
	require.NoError(t, err)
	_, err = s.SaveClient(ctx, Record{"firstName": "A2", "email": "a@example.org"})
	require.NoError(t, err)

	entries, err := s.AuditTrail(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "client_updated", entries[0].Action)
}
