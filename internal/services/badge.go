package services

import (
	"errors"
	"strings"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

func (s *BadgeService) Create(name, icon, description string) (*models.Badge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("badge name required")
	}

	badge := models.Badge{Name: name, Icon: icon, Description: description}
	if err := s.db.Create(&badge).Error; err != nil {
		return nil, errors.New("failed to create badge")
	}
	return &badge, nil
}

func (s *BadgeService) Delete(id uint) error {
	res := s.db.Delete(&models.Badge{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("badge not found")
	}
	return nil
}

func (s *BadgeService) List() ([]models.Badge, error) {
	var badges []models.Badge
	if err := s.db.Order("name ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// Award attaches a badge to a team. Awarding the same badge twice is a
// no-op success.
func (s *BadgeService) Award(teamID, badgeID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, errors.New("team not found")
	}

	var badge models.Badge
	if err := s.db.First(&badge, badgeID).Error; err != nil {
		return nil, errors.New("badge not found")
	}

	if err := s.db.Model(&team).Association("Badges").Append(&badge); err != nil {
		return nil, errors.New("failed to award badge")
	}

	s.db.Preload("Badges").First(&team, teamID)
	return &team, nil
}
