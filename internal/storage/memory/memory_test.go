package memory

import (
	"context"
	"testing"

	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/stretchr/testify/require"
)

var _ storage.Storage = (*Memory)(nil)

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := New()

	id, err := m.CreatePerson(ctx, types.Person{ID: "ignored", Name: "Ann", Age: 30, Gender: "F", Mobile: "555"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotEqual(t, "ignored", id)

	got, err := m.GetPersonByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.Person{ID: id, Name: "Ann", Age: 30, Gender: "F", Mobile: "555"}, got)

	res, err := m.UpdatePersonByID(ctx, id, types.Person{Name: "Ann", Age: 31, Gender: "F", Mobile: "555"})
	require.NoError(t, err)
	require.Equal(t, storage.UpdateResult{Matched: 1, Modified: 1}, res)

	got, err = m.GetPersonByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 31, got.Age)
	require.Equal(t, id, got.ID)

	n, err := m.DeletePersonByID(ctx, id)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = m.GetPersonByID(ctx, id)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryUpdateSameValuesIsNotModified(t *testing.T) {
	ctx := context.Background()
	m := New()
	p := types.Person{Name: "Bob", Age: 40, Gender: "M", Mobile: "1"}
	id, err := m.CreatePerson(ctx, p)
	require.NoError(t, err)

	res, err := m.UpdatePersonByID(ctx, id, p)
	require.NoError(t, err)
	require.Equal(t, storage.UpdateResult{Matched: 1}, res)
}

func TestMemoryMissingIDs(t *testing.T) {
	ctx := context.Background()
	m := New()

	res, err := m.UpdatePersonByID(ctx, "nope", types.Person{Name: "x"})
	require.NoError(t, err)
	require.Zero(t, res.Matched)

	n, err := m.DeletePersonByID(ctx, "nope")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMemoryListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := New()

	list, err := m.GetPersons(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	names := []string{"a", "b", "c"}
	ids := make([]string, 0, len(names))
	for _, n := range names {
		id, err := m.CreatePerson(ctx, types.Person{Name: n, Gender: "x", Mobile: "1"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err = m.DeletePersonByID(ctx, ids[1])
	require.NoError(t, err)

	list, err = m.GetPersons(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].Name)
	require.Equal(t, "c", list[1].Name)
}
