// Package app is the demo application: a small user directory whose services
// are all built by the autowire factory.
package app

import (
	"log/slog"
	"slices"
	"time"

	"github.com/km-arc/go-autowire/framework/autowire"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func NewClock() Clock { return SystemClock{} }

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	All() []User
	Find(id string) (User, bool)
}

// MemoryUserRepository is seeded with a fixed set of users.
type MemoryUserRepository struct {
	users map[string]User
	order []string
}

func NewUserRepository(clock Clock) UserRepository {
	repo := &MemoryUserRepository{users: make(map[string]User)}
	now := clock.Now()
	for _, u := range []User{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}} {
		u.CreatedAt = now
		repo.users[u.ID] = u
		repo.order = append(repo.order, u.ID)
	}
	return repo
}

func (r *MemoryUserRepository) All() []User {
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out
}

func (r *MemoryUserRepository) Find(id string) (User, bool) {
	u, ok := r.users[id]
	return u, ok
}

type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns every user sorted by name.
func (s *UserService) List() []User {
	users := s.repo.All()
	slices.SortFunc(users, func(a, b User) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return users
}

func (s *UserService) Get(id string) (User, bool) {
	u, ok := s.repo.Find(id)
	if !ok {
		s.logger.Debug("user not found", "id", id)
	}
	return u, ok
}

// Catalog registers the demo constructors.
func Catalog() *autowire.Catalog {
	catalog := autowire.NewCatalog()
	catalog.MustProvide(NewClock)
	catalog.MustProvide(NewUserRepository, autowire.ParamNames("clock"))
	catalog.MustProvide(NewUserService, autowire.ParamNames("repo", "logger"))
	catalog.MustProvide(NewUserController, autowire.ParamNames("users", "config"))
	return catalog
}
