package services

import (
	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

type CreditService struct {
	db *gorm.DB
}

func NewCreditService(db *gorm.DB) *CreditService {
	return &CreditService{db: db}
}

func (s *CreditService) List() ([]models.Credit, error) {
	var credits []models.Credit
	if err := s.db.Order("order_num ASC, id ASC").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Replace swaps the whole credits list in one transaction.
func (s *CreditService) Replace(credits []models.Credit) ([]models.Credit, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Credit{}).Error; err != nil {
			return err
		}
		for i := range credits {
			credits[i].ID = 0
			credits[i].OrderNum = i
			if err := tx.Create(&credits[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.List()
}
