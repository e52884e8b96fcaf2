package user

import (
	"context"
	"sync"
	"time"

	"shopBackend/domain"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the generic postgres repository.
// Rows keep insertion order, like the created_at ordering of the real one.
type memStore[T any] struct {
	mu     sync.Mutex
	rows   []T
	field  func(row T, column string) any
	unique func(a, b T) bool
}

func (m *memStore[T]) match(row T, filter domain.Filter) bool {
	for column, want := range filter {
		if m.field(row, column) != want {
			return false
		}
	}
	return true
}

func (m *memStore[T]) Get(ctx context.Context, filter domain.Filter) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if m.match(row, filter) {
			return row, nil
		}
	}

	var zero T
	return zero, domain.ErrNotFound
}

func (m *memStore[T]) GetAll(ctx context.Context, filter domain.Filter) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, 0)
	for _, row := range m.rows {
		if m.match(row, filter) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memStore[T]) Any(ctx context.Context, filter domain.Filter) (bool, error) {
	rows, _ := m.GetAll(ctx, filter)
	return len(rows) > 0, nil
}

func (m *memStore[T]) Add(ctx context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unique != nil {
		for _, row := range m.rows {
			if m.unique(row, *entity) {
				return domain.ErrConflict
			}
		}
	}

	m.rows = append(m.rows, *entity)
	return nil
}

func (m *memStore[T]) Update(ctx context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.field(*entity, "id")
	for i, row := range m.rows {
		if m.field(row, "id") == id {
			m.rows[i] = *entity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore[T]) RemoveRange(ctx context.Context, entities []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0]
	for _, row := range m.rows {
		drop := false
		for _, e := range entities {
			if m.field(row, "id") == m.field(e, "id") {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *memStore[T]) all() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.rows...)
}

type memRoles struct {
	*memStore[domain.Role]
}

func (r memRoles) EnsureRole(ctx context.Context, name string) (domain.Role, error) {
	role, err := r.Get(ctx, domain.Filter{"name": name})
	if err == nil {
		return role, nil
	}

	role = domain.Role{ID: uuid.New(), Name: name}
	if err := r.Add(ctx, &role); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

type linkKey struct {
	UserID, AddressID uuid.UUID
}

type memSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *memSessions) StoreToken(ctx context.Context, session domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[session.Token] = session.UserID
	return nil
}

func (s *memSessions) RevokeToken(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

type sentMail struct {
	toEmail, subject string
}

type memNotifier struct {
	sent []sentMail
}

func (n *memNotifier) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	n.sent = append(n.sent, sentMail{toEmail: toEmail, subject: subject})
	return nil
}

type inlineTx struct{}

func (inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	users     *memStore[domain.User]
	roles     memRoles
	addresses *memStore[domain.Address]
	links     *memStore[domain.UserAddress]
	cards     *memStore[domain.CreditCard]
	sessions  *memSessions
	notifier  *memNotifier
}

func newFixture() *fixture {
	return &fixture{
		users: &memStore[domain.User]{
			field: func(u domain.User, c string) any {
				switch c {
				case "id":
					return u.ID
				case "email":
					return u.Email
				case "role_id":
					return u.RoleID
				}
				return nil
			},
			unique: func(a, b domain.User) bool { return a.Email == b.Email },
		},
		roles: memRoles{&memStore[domain.Role]{
			field: func(r domain.Role, c string) any {
				switch c {
				case "id":
					return r.ID
				case "name":
					return r.Name
				}
				return nil
			},
			unique: func(a, b domain.Role) bool { return a.Name == b.Name },
		}},
		addresses: &memStore[domain.Address]{
			field: func(a domain.Address, c string) any {
				if c == "id" {
					return a.ID
				}
				return nil
			},
		},
		links: &memStore[domain.UserAddress]{
			field: func(l domain.UserAddress, c string) any {
				switch c {
				case "id":
					return linkKey{l.UserID, l.AddressID}
				case "user_id":
					return l.UserID
				case "address_id":
					return l.AddressID
				}
				return nil
			},
		},
		cards: &memStore[domain.CreditCard]{
			field: func(cc domain.CreditCard, c string) any {
				switch c {
				case "id":
					return cc.ID
				case "user_id":
					return cc.UserID
				}
				return nil
			},
		},
		sessions: &memSessions{tokens: map[string]string{}},
		notifier: &memNotifier{},
	}
}

func (f *fixture) repositories() Repositories {
	return Repositories{
		Users:         f.users,
		Roles:         f.roles,
		Addresses:     f.addresses,
		UserAddresses: f.links,
		CreditCards:   f.cards,
	}
}
