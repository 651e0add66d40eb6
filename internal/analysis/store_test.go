package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mailroom/internal/fields"
)

func storedResult(id string) *Result {
	entities := fields.New()
	entities.Set("quantities", []string{"50 pieces"})
	tags := fields.New()
	tags.Set("priority", "Normal")
	return &Result{
		ID:          id,
		EmailID:     "email-1",
		Intent:      "Quote Request",
		Entities:    entities,
		RoutingTags: tags,
		Confidence:  0.92,
	}
}

func TestStore_PutGet(t *testing.T) {
	store := NewStore()
	store.Put(storedResult("r1"))

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Quote Request", got.Intent)

	// Mutating the returned copy must not leak into the store.
	got.Intent = "changed"
	got.Entities.Set("quantities", []string{"tampered"})

	again, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Quote Request", again.Intent)
	quantities, _ := again.Entities.Get("quantities")
	assert.Equal(t, []string{"50 pieces"}, quantities)
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()
	_, err := store.Get("missing")
	require.ErrorIs(t, err, ErrResultNotFound)
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	store.Put(storedResult("r1"))

	updated, err := store.Update("r1", func(r *Result) error {
		r.Intent = "Product Order Request"
		r.Confidence = 0.97
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Product Order Request", updated.Intent)

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Product Order Request", got.Intent)
	assert.Equal(t, 0.97, got.Confidence)
}

func TestStore_UpdateFailureLeavesResult(t *testing.T) {
	store := NewStore()
	store.Put(storedResult("r1"))

	wantErr := errors.New("bad correction")
	_, err := store.Update("r1", func(r *Result) error {
		r.Intent = "half applied"
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Quote Request", got.Intent, "failed update must not persist")
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	store.Put(storedResult("r1"))
	store.Delete("r1")
	store.Delete("never-existed")

	_, err := store.Get("r1")
	require.ErrorIs(t, err, ErrResultNotFound)
	assert.Zero(t, store.Len())
}
