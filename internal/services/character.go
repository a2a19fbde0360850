package services

import (
	"errors"
	"strings"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

type CharacterService struct {
	db *gorm.DB
}

func NewCharacterService(db *gorm.DB) *CharacterService {
	return &CharacterService{db: db}
}

func (s *CharacterService) Create(name, role, description, photoURL string, visible bool) (*models.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("character name required")
	}

	character := models.Character{
		Name:           name,
		Role:           role,
		Description:    description,
		PhotoURL:       photoURL,
		VisibleToTeams: visible,
	}
	if err := s.db.Create(&character).Error; err != nil {
		return nil, errors.New("failed to create character")
	}
	return &character, nil
}

func (s *CharacterService) Update(id uint, name, role, description, photoURL string) (*models.Character, error) {
	var character models.Character
	if err := s.db.First(&character, id).Error; err != nil {
		return nil, errors.New("character not found")
	}

	if name = strings.TrimSpace(name); name != "" {
		character.Name = name
	}
	character.Role = role
	character.Description = description
	if photoURL != "" {
		character.PhotoURL = photoURL
	}
	if err := s.db.Save(&character).Error; err != nil {
		return nil, errors.New("failed to update character")
	}
	return &character, nil
}

// SetVisibility gates whether team clients may pin the character.
func (s *CharacterService) SetVisibility(id uint, visible bool) (*models.Character, error) {
	var character models.Character
	if err := s.db.First(&character, id).Error; err != nil {
		return nil, errors.New("character not found")
	}
	character.VisibleToTeams = visible
	if err := s.db.Save(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

func (s *CharacterService) Delete(id uint) error {
	res := s.db.Delete(&models.Character{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("character not found")
	}
	return nil
}

// ListAll is the admin view, hidden characters included.
func (s *CharacterService) ListAll() ([]models.Character, error) {
	var characters []models.Character
	if err := s.db.Order("name ASC").Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

// ListVisible is what team clients see.
func (s *CharacterService) ListVisible() ([]models.Character, error) {
	var characters []models.Character
	if err := s.db.Where("visible_to_teams = ?", true).
		Order("name ASC").Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}
