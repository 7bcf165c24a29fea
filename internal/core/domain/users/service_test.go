package users

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[int64]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]*User)}
}

func (r *memoryRepo) Upsert(_ context.Context, u *User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[u.TelegramID]; ok {
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		stored := *u
		r.users[u.TelegramID] = &stored
		return false, nil
	}
	u.ID = int64(len(r.users) + 1)
	stored := *u
	r.users[u.TelegramID] = &stored
	return true, nil
}

func (r *memoryRepo) GetByTelegramID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored := *u
	return &stored, nil
}

func (r *memoryRepo) ListChatIDs(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []int64
	for _, u := range r.users {
		ids = append(ids, u.ChatID)
	}
	return ids, nil
}

func (r *memoryRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type admins []int64

func (a admins) IsAdmin(id int64) bool {
	for _, x := range a {
		if x == id {
			return true
		}
	}
	return false
}

func TestRegister_IsIdempotent(t *testing.T) {
	svc := NewService(newMemoryRepo(), admins{42})
	ctx := context.Background()

	user, created, err := svc.Register(ctx, Profile{TelegramID: 7, ChatID: 70, FirstName: "Ali", Language: "FA"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "fa", user.Language)
	assert.False(t, user.IsAdmin)

	again, created, err := svc.Register(ctx, Profile{TelegramID: 7, ChatID: 70, Username: "ali"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "en", again.Language)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegister_Admin(t *testing.T) {
	svc := NewService(newMemoryRepo(), admins{42})

	user, _, err := svc.Register(context.Background(), Profile{TelegramID: 42, ChatID: 420})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	got, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Register(context.Background(), Profile{})
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Sara", User{FirstName: "Sara", Username: "s"}.DisplayName())
	assert.Equal(t, "@s", User{Username: "s"}.DisplayName())
	assert.Equal(t, "user 5", User{TelegramID: 5}.DisplayName())
}
