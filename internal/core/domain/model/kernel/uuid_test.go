package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		require.NoError(t, id.Validate())
		assert.False(t, id.IsZero())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})
}

func TestUUIDFromString(t *testing.T) {
	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should parse canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString(validUUID)

		require.NoError(t, err)
		assert.Equal(t, validUUID, id.String())
	})

	t.Run("should accept braces and urn prefix", func(t *testing.T) {
		braced, err := kernel.UUIDFromString("{" + validUUID + "}")
		require.NoError(t, err)
		urn, err := kernel.UUIDFromString("urn:uuid:" + validUUID)
		require.NoError(t, err)

		assert.True(t, braced.IsEqual(urn))
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, s := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.UUIDFromString(s)
			require.Error(t, err, s)
		}
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should return error for invalid byte length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID
	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
	assert.True(t, zero.IsZero())
}

func TestUUIDPtrEqual(t *testing.T) {
	a := kernel.NewUUID()
	b := a
	c := kernel.NewUUID()

	assert.True(t, kernel.UUIDPtrEqual(nil, nil))
	assert.True(t, kernel.UUIDPtrEqual(&a, &b))
	assert.False(t, kernel.UUIDPtrEqual(&a, &c))
	assert.False(t, kernel.UUIDPtrEqual(&a, nil))
}
