package repositories

import (
	"errors"
	"strings"

	"github.com/arafhm/minigram/backend/internal/apperrors"
	"github.com/arafhm/minigram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUID(uid string) (*models.User, error)
	GetUsersByUIDs(uids []string) ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperrors.DuplicateKeyError{Field: duplicateField(err)}
		}
		return err
	}
	return nil
}

// duplicateField guesses which unique column a constraint violation hit.
func duplicateField(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "uid"):
		return "uid"
	default:
		return "email"
	}
}

// GetUserByID retrieves a user by primary key
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUID retrieves a user by identity reference
func (r *PostgresUserRepository) GetUserByUID(uid string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByUIDs retrieves users for a batch of identity references. Unknown
// references are simply absent from the result.
func (r *PostgresUserRepository) GetUsersByUIDs(uids []string) ([]models.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Where("uid IN ?", uids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
