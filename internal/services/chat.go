package services

import (
	"errors"
	"strings"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

const chatHistoryLimit = 100

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// Send persists a team chat message and returns it for broadcast to the
// team's delivery group.
func (s *ChatService) Send(teamID, userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("message text required")
	}
	if len(text) > 1000 {
		return nil, errors.New("message too long")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return nil, errors.New("you are not in this team")
	}

	msg := models.Message{
		TeamID:   teamID,
		UserID:   userID,
		Nickname: user.Nickname,
		Text:     text,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, errors.New("failed to send message")
	}
	return &msg, nil
}

// Recent returns the team's latest messages in chronological order.
func (s *ChatService) Recent(teamID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(chatHistoryLimit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
