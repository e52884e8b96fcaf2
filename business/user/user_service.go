package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"
	"shopBackend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserRepository contract interface
type UserRepository interface {
	Get(ctx context.Context, filter domain.Filter) (domain.User, error)
	Any(ctx context.Context, filter domain.Filter) (bool, error)
	Add(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}

// RoleRepository contract interface
type RoleRepository interface {
	Get(ctx context.Context, filter domain.Filter) (domain.Role, error)
	EnsureRole(ctx context.Context, name string) (domain.Role, error)
}

type AddressRepository interface {
	Get(ctx context.Context, filter domain.Filter) (domain.Address, error)
	Add(ctx context.Context, address *domain.Address) error
}

type UserAddressRepository interface {
	GetAll(ctx context.Context, filter domain.Filter) ([]domain.UserAddress, error)
	Add(ctx context.Context, link *domain.UserAddress) error
	RemoveRange(ctx context.Context, links []domain.UserAddress) error
}

type CreditCardRepository interface {
	GetAll(ctx context.Context, filter domain.Filter) ([]domain.CreditCard, error)
	Add(ctx context.Context, card *domain.CreditCard) error
}

// SessionRepository keeps issued tokens so they can be revoked
type SessionRepository interface {
	StoreToken(ctx context.Context, session domain.Session, ttl time.Duration) error
	RevokeToken(ctx context.Context, userID, token string) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	GenerateJWT(userID, role string) (string, error)
	TTL() time.Duration
}

type CardCipher interface {
	Encrypt(plain string) (string, error)
}

// Repositories groups the relational stores the user service reads and writes.
type Repositories struct {
	Users         UserRepository
	Roles         RoleRepository
	Addresses     AddressRepository
	UserAddresses UserAddressRepository
	CreditCards   CreditCardRepository
}

type userService struct {
	users         UserRepository
	roles         RoleRepository
	addresses     AddressRepository
	userAddresses UserAddressRepository
	creditCards   CreditCardRepository
	tx            Transactor
	tokens        TokenIssuer
	sessions      SessionRepository
	cipher        CardCipher
	notifRepo     NotificationRepository
	validate      *validator.Validate
}

const (
	SubjectWelcome   = "Welcome to the shop!"
	EmailBodyWelcome = `Hi %v,</br></br>your account has been created. You can now sign in with %v.`
)

// NewUserService wires the service. notifRepo may be nil, in which case no
// welcome mail is sent.
func NewUserService(
	repos Repositories,
	tx Transactor,
	tokens TokenIssuer,
	sessions SessionRepository,
	cipher CardCipher,
	notifRepo NotificationRepository,
	validate *validator.Validate,
) *userService {
	return &userService{
		users:         repos.Users,
		roles:         repos.Roles,
		addresses:     repos.Addresses,
		userAddresses: repos.UserAddresses,
		creditCards:   repos.CreditCards,
		tx:            tx,
		tokens:        tokens,
		sessions:      sessions,
		cipher:        cipher,
		notifRepo:     notifRepo,
		validate:      validate,
	}
}

// Register stores a new user. The first user ever registered becomes Admin,
// everybody after that gets the User role. It reports false when the email
// is already taken. The result is confirmed by reading the email back.
func (s *userService) Register(ctx context.Context, user *domain.User, password string) (bool, error) {
	if user == nil {
		return false, nil
	}

	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", "error", err)
		return false, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	if err := s.validate.Var(password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", "error", err)
		return false, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	adminRole, err := s.roles.EnsureRole(ctx, domain.RoleAdmin)
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to ensure admin role", "error", err)
		return false, fmt.Errorf("failed to ensure admin role: %w", err)
	}

	userRole, err := s.roles.EnsureRole(ctx, domain.RoleUser)
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to ensure user role", "error", err)
		return false, fmt.Errorf("failed to ensure user role: %w", err)
	}

	taken, err := s.users.Any(ctx, domain.Filter{"email": user.Email})
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		registrationsTotal.WithLabelValues(resultConflict).Inc()
		logger.Warn("Email already registered", "email", user.Email)
		return false, nil
	}

	adminExists, err := s.users.Any(ctx, domain.Filter{"role_id": adminRole.ID})
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		return false, fmt.Errorf("failed to check admin: %w", err)
	}

	user.ID = uuid.New()
	user.RoleID = adminRole.ID
	if adminExists {
		user.RoleID = userRole.ID
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to hash password", "error", err)
		return false, errors.New("failed to hash password")
	}
	user.PasswordHash = string(passwordHash)

	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost the race against a concurrent registration
			registrationsTotal.WithLabelValues(resultConflict).Inc()
			logger.Warn("Email registered concurrently", "email", user.Email)
			return false, nil
		}
		registrationsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to create new user", "error", err)
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	confirmed, err := s.users.Any(ctx, domain.Filter{"email": user.Email})
	if err != nil {
		registrationsTotal.WithLabelValues(resultError).Inc()
		return false, fmt.Errorf("failed to confirm registration: %w", err)
	}

	if confirmed {
		registrationsTotal.WithLabelValues(resultSuccess).Inc()
		logger.Info("User registered", "user_id", user.ID, "role_id", user.RoleID)
		s.sendWelcome(ctx, *user)
	}

	return confirmed, nil
}

func (s *userService) sendWelcome(ctx context.Context, user domain.User) {
	if s.notifRepo == nil {
		return
	}

	err := s.notifRepo.SendEmail(ctx, user.Name, user.Email, SubjectWelcome, fmt.Sprintf(EmailBodyWelcome, user.Name, user.Email))
	if err != nil {
		logger.Warn("Failed to send welcome email", "error", err)
	}
}

// Login returns a signed token for valid credentials. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.Get(ctx, domain.Filter{"email": email})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			loginsTotal.WithLabelValues(resultFailure).Inc()
			logger.Warn("Login with unknown email")
			return "", domain.ErrInvalidCredentials
		}
		loginsTotal.WithLabelValues(resultError).Inc()
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		loginsTotal.WithLabelValues(resultFailure).Inc()
		logger.Warn("User password incorrect", "user_id", user.ID)
		return "", domain.ErrInvalidCredentials
	}

	role, err := s.roles.Get(ctx, domain.Filter{"id": user.RoleID})
	if err != nil {
		loginsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to load user role", "error", err)
		return "", fmt.Errorf("failed to load role: %w", err)
	}

	token, err := s.tokens.GenerateJWT(user.ID.String(), role.Name)
	if err != nil {
		loginsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to generate token", "error", err)
		return "", errors.New("failed to generate token")
	}

	now := time.Now()
	session := domain.Session{
		UserID:    user.ID.String(),
		Role:      role.Name,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.StoreToken(ctx, session, s.tokens.TTL()); err != nil {
		loginsTotal.WithLabelValues(resultError).Inc()
		logger.Error("Failed to store session", "error", err)
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	loginsTotal.WithLabelValues(resultSuccess).Inc()
	return token, nil
}

func (s *userService) Logout(ctx context.Context, identity domain.Identity) error {
	if identity.Subject == "" || identity.Token == "" {
		return domain.ErrInvalidToken
	}

	if err := s.sessions.RevokeToken(ctx, identity.Subject, identity.Token); err != nil {
		logger.Error("Failed to revoke session", "error", err)
		return err
	}

	return nil
}

// GetUserFromIdentity resolves the authenticated caller to a user record.
func (s *userService) GetUserFromIdentity(ctx context.Context, identity domain.Identity) (domain.User, error) {
	if identity.Subject == "" {
		return domain.User{}, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(identity.Subject)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: malformed subject", domain.ErrInvalidToken)
	}

	user, err := s.users.Get(ctx, domain.Filter{"id": userID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		logger.Error("Failed to get user by ID", "error", err)
		return domain.User{}, err
	}

	return user, nil
}

// UpdateProfile overwrites name, email and phone number.
func (s *userService) UpdateProfile(ctx context.Context, user *domain.User, profile domain.UserProfile) (bool, error) {
	if user == nil {
		return false, nil
	}

	user.Name = profile.Name
	user.Email = profile.Email
	user.PhoneNumber = profile.PhoneNumber

	if err := s.users.Update(ctx, user); err != nil {
		logger.Error("Failed to update user", "error", err)
		return false, err
	}

	return true, nil
}
