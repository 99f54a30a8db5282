package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/herballink/herballink-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Validation and authentication failures handlers are expected to surface as
// user-visible messages rather than server errors.
var (
	ErrFieldsRequired     = errors.New("all fields required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(fullname, email, password, confirm string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
}

// registrationInput backs the validator checks on registration fields.
type registrationInput struct {
	Fullname string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// UserService provides business logic for account management.
type UserService struct {
	db       *sql.DB
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, validate: validator.New()}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash; the plaintext never touches the database.
func (s *UserService) Register(fullname, email, password, confirm string) (models.User, error) {
	input := registrationInput{Fullname: fullname, Email: email, Password: password}
	if err := s.validate.Struct(input); err != nil {
		return models.User{}, ErrFieldsRequired
	}
	if password != confirm {
		return models.User{}, ErrPasswordMismatch
	}

	var existing string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return models.User{}, ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Fullname:     fullname,
		Email:        email,
		PasswordHash: string(hashedPassword),
		RegisteredAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, fullname, email, password_hash, registered_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Fullname, user.Email, user.PasswordHash, user.RegisteredAt); err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, fullname, email, password_hash, registered_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Fullname, &user.Email, &user.PasswordHash, &user.RegisteredAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with email %s not found", email)
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials. Missing user and wrong
// password both collapse to ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
