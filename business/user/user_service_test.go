package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopBackend/business/address"
	"shopBackend/domain"
	"shopBackend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCardKey = "0123456789abcdef"

func newTestService(f *fixture) *userService {
	return NewUserService(
		f.repositories(),
		inlineTx{},
		utils.NewJWTManager("test-secret", time.Hour),
		f.sessions,
		utils.NewCardCipher(testCardKey),
		f.notifier,
		validator.New(),
	)
}

func register(t *testing.T, svc *userService, name, email, password string) *domain.User {
	t.Helper()

	u := &domain.User{Name: name, Email: email}
	ok, err := svc.Register(context.Background(), u, password)
	require.NoError(t, err)
	require.True(t, ok)
	return u
}

func roleName(t *testing.T, f *fixture, u *domain.User) string {
	t.Helper()

	role, err := f.roles.Get(context.Background(), domain.Filter{"id": u.RoleID})
	require.NoError(t, err)
	return role.Name
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	first := register(t, svc, "Ada", "ada@shop.test", "password1")
	second := register(t, svc, "Bob", "bob@shop.test", "password2")

	assert.Equal(t, domain.RoleAdmin, roleName(t, f, first))
	assert.Equal(t, domain.RoleUser, roleName(t, f, second))
	assert.Len(t, f.roles.all(), 2)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, "password1", first.PasswordHash)
	assert.True(t, utils.CheckPassword("password1", first.PasswordHash))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	register(t, svc, "Ada", "ada@shop.test", "password1")

	ok, err := svc.Register(context.Background(), &domain.User{Name: "Imposter", Email: "ada@shop.test"}, "password2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, f.users.all(), 1)
}

func TestRegisterSendsWelcomeMail(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	register(t, svc, "Ada", "ada@shop.test", "password1")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ada@shop.test", f.notifier.sent[0].toEmail)
	assert.Equal(t, SubjectWelcome, f.notifier.sent[0].subject)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)

	_, err := svc.Register(context.Background(), &domain.User{Email: "not-an-email"}, "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(context.Background(), &domain.User{Email: "ada@shop.test"}, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ok, err := svc.Register(context.Background(), nil, "password1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.users.all())
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Get(ctx context.Context, filter domain.Filter) (domain.Role, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockRoleRepository) EnsureRole(ctx context.Context, name string) (domain.Role, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Role), args.Error(1)
}

func TestRegisterRoleBootstrapFailure(t *testing.T) {
	f := newFixture()
	roles := new(MockRoleRepository)
	roles.On("EnsureRole", mock.Anything, domain.RoleAdmin).Return(domain.Role{}, errors.New("db down"))

	repos := f.repositories()
	repos.Roles = roles
	svc := NewUserService(repos, inlineTx{}, utils.NewJWTManager("s", time.Hour), f.sessions, utils.NewCardCipher(testCardKey), nil, validator.New())

	ok, err := svc.Register(context.Background(), &domain.User{Email: "ada@shop.test"}, "password1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.users.all())
	roles.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	token, err := svc.Login(context.Background(), "ada@shop.test", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID.String(), f.sessions.tokens[token])

	claims, err := utils.NewJWTManager("test-secret", time.Hour).ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	register(t, svc, "Ada", "ada@shop.test", "password1")

	token, err := svc.Login(context.Background(), "ada@shop.test", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, token)

	token, err = svc.Login(context.Background(), "nobody@shop.test", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Empty(t, f.sessions.tokens)
}

func TestLogout(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	token, err := svc.Login(context.Background(), "ada@shop.test", "password1")
	require.NoError(t, err)

	err = svc.Logout(context.Background(), domain.Identity{Subject: u.ID.String(), Token: token})
	require.NoError(t, err)
	assert.Empty(t, f.sessions.tokens)

	assert.ErrorIs(t, svc.Logout(context.Background(), domain.Identity{}), domain.ErrInvalidToken)
}

func TestGetUserFromIdentity(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	_, err := svc.GetUserFromIdentity(context.Background(), domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.GetUserFromIdentity(context.Background(), domain.Identity{Subject: "42"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.GetUserFromIdentity(context.Background(), domain.Identity{Subject: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.GetUserFromIdentity(context.Background(), domain.Identity{Subject: u.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "ada@shop.test", got.Email)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	ok, err := svc.UpdateProfile(context.Background(), nil, domain.UserProfile{Name: "x"})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.UpdateProfile(context.Background(), u, domain.UserProfile{
		Name:        "Ada Lovelace",
		Email:       "lovelace@shop.test",
		PhoneNumber: "+46701234567",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.users.Get(context.Background(), domain.Filter{"id": u.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, "lovelace@shop.test", stored.Email)
	assert.Equal(t, "+46701234567", stored.PhoneNumber)
}

func seedAddress(t *testing.T, f *fixture, user *domain.User, city string) domain.Address {
	t.Helper()

	a := domain.Address{ID: uuid.New(), Title: "Home", StreetName: "Storgatan 1", PostalCode: "11122", City: city}
	require.NoError(t, f.addresses.Add(context.Background(), &a))
	require.NoError(t, f.links.Add(context.Background(), &domain.UserAddress{UserID: user.ID, AddressID: a.ID}))
	return a
}

func TestUpdateUserAddressWithoutLink(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	ok, err := svc.UpdateUserAddress(context.Background(), u, uuid.New(), &domain.AddressForm{City: "Malmö"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.addresses.all())
	assert.Empty(t, f.links.all())

	ok, err = svc.UpdateUserAddress(context.Background(), u, uuid.New(), nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUserAddressReplaces(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")
	old := seedAddress(t, f, u, "Stockholm")

	ok, err := svc.UpdateUserAddress(context.Background(), u, old.ID, &domain.AddressForm{
		Title: "Home", StreetName: "Lilla torg 2", PostalCode: "21134", City: "Malmö",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	links := f.links.all()
	require.Len(t, links, 1)
	assert.Equal(t, u.ID, links[0].UserID)
	assert.NotEqual(t, old.ID, links[0].AddressID)

	replacement, err := f.addresses.Get(context.Background(), domain.Filter{"id": links[0].AddressID})
	require.NoError(t, err)
	assert.Equal(t, "Malmö", replacement.City)
	assert.Equal(t, "Lilla torg 2", replacement.StreetName)

	stillLinked, err := f.links.Any(context.Background(), domain.Filter{"user_id": u.ID, "address_id": old.ID})
	require.NoError(t, err)
	assert.False(t, stillLinked)
}

func TestGetAllAddressesForUser(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	list, err := svc.GetAllAddressesForUser(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	seedAddress(t, f, u, "Stockholm")
	seedAddress(t, f, u, "Uppsala")
	// dangling link is skipped
	require.NoError(t, f.links.Add(context.Background(), &domain.UserAddress{UserID: u.ID, AddressID: uuid.New()}))

	list, err = svc.GetAllAddressesForUser(context.Background(), u)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Stockholm", list[0].City)
	assert.Equal(t, "Uppsala", list[1].City)
}

func TestCreditCards(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	u := register(t, svc, "Ada", "ada@shop.test", "password1")

	nextYear := time.Now().Year() + 1
	ok, err := svc.AddCreditCard(context.Background(), u, &domain.CreditCardForm{
		CardholderName: "Ada Lovelace",
		CardNumber:     "4111111111111111",
		ExpiryMonth:    12,
		ExpiryYear:     nextYear,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.cards.all()
	require.Len(t, stored, 1)
	assert.NotContains(t, stored[0].EncryptedCardNumber, "4111111111111111")
	plain, err := utils.NewCardCipher(testCardKey).Decrypt(stored[0].EncryptedCardNumber)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", plain)

	cards, err := svc.GetAllCreditCardsForUser(context.Background(), u)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "**** **** **** 1111", cards[0].MaskedNumber)

	_, err = svc.AddCreditCard(context.Background(), u, &domain.CreditCardForm{
		CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2000,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cards, err = svc.GetAllCreditCardsForUser(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

// Admin registers, then a regular user logs in, registers an address and
// moves it to another city.
func TestAccountLifecycle(t *testing.T) {
	f := newFixture()
	svc := newTestService(f)
	addrSvc := address.NewAddressService(f.addresses, f.links, inlineTx{})
	ctx := context.Background()

	admin := register(t, svc, "Ada", "ada@shop.test", "password1")
	bob := register(t, svc, "Bob", "bob@shop.test", "password2")
	assert.Equal(t, domain.RoleAdmin, roleName(t, f, admin))
	assert.Equal(t, domain.RoleUser, roleName(t, f, bob))

	token, err := svc.Login(ctx, "bob@shop.test", "password2")
	require.NoError(t, err)
	claims, err := utils.NewJWTManager("test-secret", time.Hour).ParseJWT(token)
	require.NoError(t, err)

	caller, err := svc.GetUserFromIdentity(ctx, domain.Identity{Subject: claims.Subject, Role: claims.Role, Token: token})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, caller.ID)

	ok, err := addrSvc.RegisterAddress(ctx, &caller, &domain.AddressForm{
		Title: "Home", StreetName: "Storgatan 1", PostalCode: "11122", City: "Stockholm",
	})
	require.NoError(t, err)
	require.True(t, ok)

	list, err := svc.GetAllAddressesForUser(ctx, &caller)
	require.NoError(t, err)
	require.Len(t, list, 1)

	ok, err = svc.UpdateUserAddress(ctx, &caller, list[0].ID, &domain.AddressForm{
		Title: "Home", StreetName: "Storgatan 1", PostalCode: "75320", City: "Uppsala",
	})
	require.NoError(t, err)
	require.True(t, ok)

	list, err = svc.GetAllAddressesForUser(ctx, &caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Uppsala", list[0].City)
}
