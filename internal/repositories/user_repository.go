package repositories

import (
	"errors"

	"threadline/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsersByIDs(ids []string) ([]models.User, error)
	UserExists(id string) (bool, error)
	UsernameTaken(username string) (bool, error)
	EmailTaken(email string) (bool, error)
	IncrementFollowerCount(id string) error
	DecrementFollowerCount(id string) error
	SearchUsers(term string, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername looks a user up by username, case-insensitively.
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) UserExists(id string) (bool, error) {
	var user models.User
	err := r.db.Select("id").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *PostgresUserRepository) UsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error
	return count > 0, err
}

func (r *PostgresUserRepository) EmailTaken(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// IncrementFollowerCount bumps the denormalized follower counter in place.
// Callers must run this in the same transaction as the follow-row insert.
func (r *PostgresUserRepository) IncrementFollowerCount(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("follower_count", gorm.Expr("follower_count + ?", 1)).Error
}

// DecrementFollowerCount lowers the counter, clamped at zero.
func (r *PostgresUserRepository) DecrementFollowerCount(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("follower_count", gorm.Expr("CASE WHEN follower_count > 0 THEN follower_count - 1 ELSE 0 END")).Error
}

// SearchUsers ranks matches by priority: username prefix, then name prefix,
// then username substring, then name substring. Ties keep insertion order.
func (r *PostgresUserRepository) SearchUsers(term string, limit int) ([]models.User, error) {
	var users []models.User
	prefix := term + "%"
	substring := "%" + term + "%"
	err := r.db.Raw(`
		SELECT * FROM users
		WHERE LOWER(username) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)
		ORDER BY CASE
			WHEN LOWER(username) LIKE LOWER(?) THEN 1
			WHEN LOWER(name) LIKE LOWER(?) THEN 2
			WHEN LOWER(username) LIKE LOWER(?) THEN 3
			ELSE 4
		END, id
		LIMIT ?`,
		substring, substring, prefix, prefix, substring, limit,
	).Scan(&users).Error
	return users, err
}
