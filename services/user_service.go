package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"hotel-reservation/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      models.Role
}

type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *models.Role
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", newValidationError("error.invalidPassword",
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func validateUserFields(username, email string) error {
	if username == "" {
		return newValidationError("error.invalidUser", "username is required")
	}
	if email == "" {
		return newValidationError("error.invalidUser", "email is required")
	}
	if len(email) > 50 {
		return newValidationError("error.invalidUser", "email must be at most 50 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return newValidationError("error.invalidUser", "Enter a valid email address.")
	}
	return nil
}

func duplicateUserError(err error) error {
	if isDuplicateKeyError(err) {
		return newValidationError("error.duplicateUser", "A user with that username or email already exists.")
	}
	return err
}

// Register creates a self-service account; the role is always guest.
func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	in.Role = models.RoleGuest
	return s.Create(ctx, in)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateUserFields(username, email); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(string(in.Role))
	if !ok {
		return nil, newValidationError("error.invalidRole", "role must be one of admin, agent, guest")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  hash,
		Role:      role,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if dup := duplicateUserError(err); dup != err {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound("user", id, err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if err := validateUserFields(user.Username, user.Email); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	}
	if patch.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if patch.Role != nil {
		role, ok := models.ParseRole(string(*patch.Role))
		if !ok {
			return nil, newValidationError("error.invalidRole", "role must be one of admin, agent, guest")
		}
		updates["role"] = role
	}
	if patch.Password != nil {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if dup := duplicateUserError(err); dup != err {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes the user; their reservations are kept with no owner.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound("user", id, err)
		}
		if err := tx.Model(&models.Reservation{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach reservations of user %d: %w", id, err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		return nil
	})
}

// Authenticate checks a username / password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !isBcryptHash(user.Password) {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, UserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// CountByRole returns how many users hold each role; roles with no users report zero.
func (s *UserService) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Total int64
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	out := make(map[models.Role]int64, len(models.AllRoles))
	for _, r := range models.AllRoles {
		out[r] = 0
	}
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}
