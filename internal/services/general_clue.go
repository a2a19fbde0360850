package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

type GeneralClueService struct {
	db *gorm.DB
}

func NewGeneralClueService(db *gorm.DB) *GeneralClueService {
	return &GeneralClueService{db: db}
}

func (s *GeneralClueService) Add(text string) (*models.GeneralClue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("clue text required")
	}

	clue := models.GeneralClue{
		Text:      text,
		Timestamp: time.Now().Format("15:04:05"),
	}
	if err := s.db.Create(&clue).Error; err != nil {
		return nil, errors.New("failed to add general clue")
	}
	return &clue, nil
}

func (s *GeneralClueService) Delete(id uint) error {
	res := s.db.Delete(&models.GeneralClue{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("general clue not found")
	}
	return nil
}

func (s *GeneralClueService) List() ([]models.GeneralClue, error) {
	var clues []models.GeneralClue
	if err := s.db.Order("created_at ASC").Find(&clues).Error; err != nil {
		return nil, err
	}
	return clues, nil
}
