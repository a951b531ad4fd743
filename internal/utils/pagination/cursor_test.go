package pagination_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/utils/pagination"
)

func TestDecodeEmptyIsFirstPage(t *testing.T) {
	c, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Equal(t, pagination.Cursor{}, c)
	assert.True(t, c.IsZero())
}

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, time.January, 5, 10, 0, 0, 123456789, time.UTC)
	token, err := pagination.Encode(pagination.NewCursor(1001, created))
	require.NoError(t, err)

	c, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.False(t, c.IsZero())
	assert.Equal(t, int64(1001), c.UserID)
	assert.True(t, created.Equal(c.CreatedAt()), "sub-millisecond precision survives the round trip")
}

func TestDecodeGarbage(t *testing.T) {
	_, err := pagination.Decode("%%%")
	assert.True(t, errors.Is(err, svcErr.ErrInvalidArgument))

	_, err = pagination.Decode("bm90LWpzb24=") // "not-json"
	assert.True(t, errors.Is(err, svcErr.ErrInvalidArgument))
}
