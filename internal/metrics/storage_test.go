package metrics

import (
	"context"
	"testing"

	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/storage/memory"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var _ storage.Storage = (*Storage)(nil)

func TestInstrumentStorageCountsResults(t *testing.T) {
	ctx := context.Background()
	s := InstrumentStorage(memory.New())

	createOK := testutil.ToFloat64(StoreOperations.WithLabelValues("create", "ok"))
	getMissing := testutil.ToFloat64(StoreOperations.WithLabelValues("get", "not_found"))

	id, err := s.CreatePerson(ctx, types.Person{Name: "Ann", Age: 30, Gender: "F", Mobile: "555"})
	require.NoError(t, err)
	_, err = s.GetPersonByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetPersonByID(ctx, id)
	require.NoError(t, err)

	require.Equal(t, createOK+1, testutil.ToFloat64(StoreOperations.WithLabelValues("create", "ok")))
	require.Equal(t, getMissing+1, testutil.ToFloat64(StoreOperations.WithLabelValues("get", "not_found")))
}

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })
	require.Panics(t, func() { RegisterCollectors(reg) })
}
