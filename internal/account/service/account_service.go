package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ordercrm/internal/auth"
	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
)

const (
	maxUsernameLength = 150
	maxEmailLength    = 200
	minPasswordLength = 8
	// bcrypt only hashes the first 72 bytes and refuses anything longer.
	maxPasswordBytes = 72

	msgRequired         = "This field is required."
	msgUsernameTaken    = "A user with that username already exists."
	msgInvalidUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgInvalidEmail     = "Enter a valid email address."
	msgPasswordNumeric  = "This password is entirely numeric."
	msgPasswordMismatch = "The two password fields didn't match."
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	numericPattern  = regexp.MustCompile(`^[0-9]+$`)
)

type UserRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, user domain.User) (int, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type CustomerRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, customer domain.Customer) (int, error)
	FindByUserID(ctx context.Context, userID int) (*domain.Customer, error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type AccountService struct {
	txRunner  TxRunner
	users     UserRepository
	customers CustomerRepository
	logger    *zap.Logger
	hashCost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAccountService(txRunner TxRunner, users UserRepository, customers CustomerRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		txRunner:  txRunner,
		users:     users,
		customers: customers,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates a customer account: the user in the customer group and
// its Customer profile, in one transaction.
func (s *AccountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	details := validateUsername(req.Username)
	details = append(details, validateEmail(req.Email)...)
	details = append(details, validatePassword("password1", req.Password1)...)
	if req.Password2 == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password2", Message: msgRequired})
	} else if req.Password1 != req.Password2 {
		details = append(details, apperrors.ValidationDetail{Field: "password2", Message: msgPasswordMismatch})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), s.hashCost)
	if err != nil {
		return nil, apperrors.NewInternalError("hashing password", err)
	}

	user := domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}

	err = s.txRunner.WithinTx(ctx, func(tx *sql.Tx) error {
		id, err := s.users.Insert(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = id

		_, err = s.customers.Insert(ctx, tx, domain.Customer{
			UserID: id,
			Name:   user.Username,
			Email:  user.Email,
		})
		return err
	})
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, apperrors.NewValidationError("invalid registration", apperrors.ValidationDetail{
				Field:   "username",
				Message: msgUsernameTaken,
			})
		}
		return nil, apperrors.NewInternalError("registering user", err)
	}

	s.logger.Info("user registered", zap.Int("userId", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// CreateAdmin creates a user in the admin group. Admins have no Customer
// profile.
func (s *AccountService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	details := validateUsername(username)
	details = append(details, validateEmail(email)...)
	details = append(details, validatePassword("password", password)...)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid admin user", details...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, apperrors.NewInternalError("hashing password", err)
	}

	user := domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	err = s.txRunner.WithinTx(ctx, func(tx *sql.Tx) error {
		id, err := s.users.Insert(ctx, tx, user)
		user.ID = id
		return err
	})
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, apperrors.NewValidationError("invalid admin user", apperrors.ValidationDetail{
				Field:   "username",
				Message: msgUsernameTaken,
			})
		}
		return nil, apperrors.NewInternalError("creating admin", err)
	}

	s.logger.Info("admin created", zap.Int("userId", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// Authenticate checks the credentials and returns the session principal.
// Every credential failure yields auth.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (auth.Principal, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			// spend the same bcrypt time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return auth.Principal{}, auth.ErrInvalidCredentials
		}
		return auth.Principal{}, fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}

	principal := auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
	if user.Role == domain.RoleCustomer {
		customer, err := s.customers.FindByUserID(ctx, user.ID)
		if err != nil {
			return auth.Principal{}, fmt.Errorf("loading customer profile: %w", err)
		}
		principal.CustomerID = customer.ID
	}

	return principal, nil
}

func (s *AccountService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
		if err != nil {
			s.logger.Warn("generating dummy hash", zap.Error(err))
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func validateUsername(username string) []apperrors.ValidationDetail {
	if username == "" {
		return []apperrors.ValidationDetail{{Field: "username", Message: msgRequired}}
	}

	var details []apperrors.ValidationDetail
	if n := utf8.RuneCountInString(username); n > maxUsernameLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "username",
			Message: fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", maxUsernameLength, n),
		})
	}
	if !usernamePattern.MatchString(username) {
		details = append(details, apperrors.ValidationDetail{Field: "username", Message: msgInvalidUsername})
	}
	return details
}

func validateEmail(email string) []apperrors.ValidationDetail {
	if email == "" {
		return nil
	}
	if n := utf8.RuneCountInString(email); n > maxEmailLength {
		return []apperrors.ValidationDetail{{
			Field:   "email",
			Message: fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", maxEmailLength, n),
		}}
	}
	if !dto.IsValidEmail(email) {
		return []apperrors.ValidationDetail{{Field: "email", Message: msgInvalidEmail}}
	}
	return nil
}

func validatePassword(field, password string) []apperrors.ValidationDetail {
	if password == "" {
		return []apperrors.ValidationDetail{{Field: field, Message: msgRequired}}
	}

	var details []apperrors.ValidationDetail
	if utf8.RuneCountInString(password) < minPasswordLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   field,
			Message: fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength),
		})
	}
	if len(password) > maxPasswordBytes {
		details = append(details, apperrors.ValidationDetail{
			Field:   field,
			Message: fmt.Sprintf("This password is too long. It must contain at most %d bytes.", maxPasswordBytes),
		})
	}
	if numericPattern.MatchString(password) {
		details = append(details, apperrors.ValidationDetail{Field: field, Message: msgPasswordNumeric})
	}
	return details
}
