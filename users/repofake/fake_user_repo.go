package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sounak286/RAKSHA-SATHI/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users  map[int64]*users.User
	nextID int64
	lock   sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[int64]*users.User),
	}
}

func (ur *FakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, id := range ur.sortedIDs() {
		u := ur.users[id]
		if u.Username == username || u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (ur *FakeUserRepo) Insert(_ context.Context, user *users.User) (int64, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	for _, u := range ur.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, users.ErrUserAlreadyExists
		}
	}
	ur.nextID++
	user.ID = ur.nextID
	ur.users[user.ID] = copyUser(user)
	return user.ID, nil
}

func (ur *FakeUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (ur *FakeUserRepo) UpdateRole(_ context.Context, id int64, role users.Role) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (ur *FakeUserRepo) List(_ context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, id := range ur.sortedIDs() {
		userList = append(userList, copyUser(ur.users[id]))
	}
	return userList, nil
}

// Delete removes a user. It exists so tests can simulate a user vanishing
// while their token is still valid.
func (ur *FakeUserRepo) Delete(id int64) {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	delete(ur.users, id)
}

func (ur *FakeUserRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(ur.users))
	for id := range ur.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func copyUser(u *users.User) *users.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
