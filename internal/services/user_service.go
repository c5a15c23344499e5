package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/logger"
	"finvue/internal/models"
	"finvue/internal/policy"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// EnsureBootstrapAdmin seeds the fixed admin account when the user table is
// empty, so a fresh deployment always has exactly one ADMIN to log in with.
func (s *userService) EnsureBootstrapAdmin(username, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	admin := &models.User{
		Username: username,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("seeded bootstrap admin", "username", username)
	return nil
}

// Authenticate looks up a user by exact username and checks the credential.
// Usernames are case-sensitive.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// CreateUser registers a new member. Only admins may create users.
func (s *userService) CreateUser(actor *models.User, username, password string, role models.UserRole) (*models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, apperrors.ErrForbidden
	}
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ListUsers returns every member. Admin only.
func (s *userService) ListUsers(actor *models.User) ([]models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, apperrors.ErrForbidden
	}
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// UpdateUser changes username, credential, or role. Admin only. Existing
// transactions keep their denormalized submitter name; it is a snapshot
// taken at creation time.
func (s *userService) UpdateUser(actor *models.User, userID string, fields UserUpdateFields) (*models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if fields.Username != nil && *fields.Username != user.Username {
		if *fields.Username == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username cannot be empty")
		}
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ? AND id <> ?", *fields.Username, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateUsername
		}
		updates["username"] = *fields.Username
	}
	if fields.Password != nil && *fields.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*fields.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["password"] = string(hashed)
	}
	if fields.Role != nil {
		updates["role"] = *fields.Role
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return user, nil
}

// DeleteUser removes a member. Admin only; ADMIN-role accounts are protected
// from the delete path. Transactions submitted by the user survive with
// their immutable submitter snapshot.
func (s *userService) DeleteUser(actor *models.User, userID string) error {
	if !policy.CanManageUsers(actor.Role) {
		return apperrors.ErrForbidden
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return apperrors.ErrAdminUndeletable
	}

	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetAvatar stores a data-URI avatar on the user's own record.
func (s *userService) SetAvatar(userID, dataURI string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("avatar", dataURI).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}
