package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Contract(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	in := []byte("value")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'X'

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	v[0] = 'Y'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("value"), again)

	require.NoError(t, r.Set(ctx, "empty", nil))
	v, err = r.Get(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestJSONHelpers(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	type item struct {
		ID string `json:"id"`
	}

	var got []item
	ok, err := LoadJSON(ctx, r, KeyPosts, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := LoadList[item](ctx, r, KeyPosts)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, SaveJSON(ctx, r, KeyPosts, []item{{ID: "p2"}, {ID: "p1"}}))

	list, err = LoadList[item](ctx, r, KeyPosts)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "p2"}, {ID: "p1"}}, list)

	require.NoError(t, r.Set(ctx, KeyRooms, []byte("{broken")))
	_, err = LoadList[item](ctx, r, KeyRooms)
	assert.ErrorContains(t, err, "failed to decode slot[tikbook_rooms]")

	assert.ErrorContains(t, SaveJSON(ctx, r, KeyRooms, make(chan int)), "failed to encode")
}
