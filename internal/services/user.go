package services

import (
	"errors"
	"strings"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a globally unique, case-insensitive
// nickname and binds it to the registering connection.
func (s *UserService) Register(nickname, connID string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, errors.New("nickname required")
	}
	if len(nickname) > 100 {
		return nil, errors.New("nickname too long")
	}

	var existing models.User
	if err := s.db.Where("LOWER(nickname) = LOWER(?)", nickname).First(&existing).Error; err == nil {
		return nil, errors.New("nickname already taken")
	}

	user := models.User{
		Nickname:     nickname,
		Online:       true,
		ConnectionID: connID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errors.New("failed to register user")
	}
	return &user, nil
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// Reconnect re-binds an existing user to a fresh connection.
func (s *UserService) Reconnect(userID uint, connID string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Online = true
	user.ConnectionID = connID
	s.db.Save(user)
	return user, nil
}

// Disconnect marks whichever user held this connection as offline.
// Returns nil without error when the connection never registered.
func (s *UserService) Disconnect(connID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("connection_id = ?", connID).First(&user).Error; err != nil {
		return nil, nil
	}
	user.Online = false
	user.ConnectionID = ""
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListOnline returns online users grouped by team order for the
// users-update snapshot.
func (s *UserService) ListOnline() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("online = ?", true).
		Order("team_id ASC NULLS LAST, nickname ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetPhoto stores a profile photo reference.
func (s *UserService) SetPhoto(userID uint, url string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.PhotoURL = url
	s.db.Save(user)
	return user, nil
}

// Delete removes a user entirely, freeing the nickname for reuse. Admin
// only.
func (s *UserService) Delete(userID uint) error {
	res := s.db.Delete(&models.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
