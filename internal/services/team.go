package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// CreateTeam creates a team and promotes the creating user to captain in
// one transaction, so a failed membership update never leaves an orphan
// team behind.
func (s *TeamService) CreateTeam(name, password string, userID uint, avatar, color string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("team name required")
	}
	if password == "" {
		return nil, errors.New("team password required")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if user.TeamID != nil {
		return nil, errors.New("you are already in a team")
	}

	var existing models.Team
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		return nil, errors.New("team name already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	team := models.Team{
		Name:         name,
		PasswordHash: string(hash),
		Avatar:       avatar,
		Color:        color,
		CaptainName:  user.Nickname,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]any{"team_id": team.ID, "is_captain": true}).Error
	})
	if err != nil {
		return nil, errors.New("failed to create team")
	}

	return &team, nil
}

// JoinTeam checks the shared team password and moves the user in.
func (s *TeamService) JoinTeam(teamID uint, password string, userID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, errors.New("team not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("incorrect team password")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if user.TeamID != nil && *user.TeamID == teamID {
		return &team, nil
	}
	if user.TeamID != nil {
		return nil, errors.New("you are already in a team")
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("team_id", teamID).Error; err != nil {
		return nil, errors.New("failed to join team")
	}

	return &team, nil
}

// LeaveTeam clears the user's membership. Captaincy is dropped with it;
// the team's recorded captain name stays as history.
func (s *TeamService) LeaveTeam(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	if user.TeamID == nil {
		return errors.New("you are not in a team")
	}

	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"team_id": nil, "is_captain": false}).Error
}

// GetTeams is the full aggregate snapshot: every team with nested clues
// and badges.
func (s *TeamService) GetTeams() ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.
		Preload("Clues", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Badges").
		Order("score DESC, name ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.
		Preload("Clues", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Badges").
		First(&team, teamID).Error; err != nil {
		return nil, errors.New("team not found")
	}
	return &team, nil
}

// ChangeScore applies a delta and floors the result at zero.
func (s *TeamService) ChangeScore(teamID uint, delta int) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, errors.New("team not found")
	}

	team.Score += delta
	if team.Score < 0 {
		team.Score = 0
	}
	if err := s.db.Save(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// AddClue appends a clue to the team's list. The game-running
// precondition is the caller's to check against the state machine.
func (s *TeamService) AddClue(teamID uint, text string) (*models.Clue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("clue text required")
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, errors.New("team not found")
	}

	clue := models.Clue{
		TeamID:    teamID,
		Text:      text,
		Timestamp: time.Now().Format("15:04:05"),
	}
	if err := s.db.Create(&clue).Error; err != nil {
		return nil, errors.New("failed to add clue")
	}
	return &clue, nil
}

func (s *TeamService) GetClues(teamID uint) ([]models.Clue, error) {
	var clues []models.Clue
	if err := s.db.Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&clues).Error; err != nil {
		return nil, err
	}
	return clues, nil
}

// DeleteTeam removes a team and everything scoped to it, detaching its
// members.
func (s *TeamService) DeleteTeam(teamID uint) error {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return errors.New("team not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id = ?", teamID).
			Updates(map[string]any{"team_id": nil, "is_captain": false}).Error; err != nil {
			return err
		}
		tx.Where("team_id = ?", teamID).Delete(&models.Clue{})
		tx.Where("team_id = ?", teamID).Delete(&models.BoardConnection{})
		tx.Where("team_id = ?", teamID).Delete(&models.BoardItem{})
		tx.Where("team_id = ?", teamID).Delete(&models.Message{})
		if err := tx.Model(&team).Association("Badges").Clear(); err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
}

// Reset wipes all per-game state: teams, clues, boards, chat, general
// clues. The character, badge and credits catalogs survive.
func (s *TeamService) Reset() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id IS NOT NULL").
			Updates(map[string]any{"team_id": nil, "is_captain": false}).Error; err != nil {
			return err
		}
		tx.Where("1 = 1").Delete(&models.Clue{})
		tx.Where("1 = 1").Delete(&models.GeneralClue{})
		tx.Where("1 = 1").Delete(&models.BoardConnection{})
		tx.Where("1 = 1").Delete(&models.BoardItem{})
		tx.Where("1 = 1").Delete(&models.Message{})
		tx.Exec("DELETE FROM team_badges")
		return tx.Where("1 = 1").Delete(&models.Team{}).Error
	})
}
