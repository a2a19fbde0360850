package services

import (
	"errors"

	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"gorm.io/gorm"
)

// BoardService owns the per-team murder board: pinned characters and the
// directed connections between them. Boards are strictly team-scoped;
// only the admin monitoring view reads across teams.
type BoardService struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db}
}

type BoardState struct {
	Items       []models.BoardItem       `json:"items"`
	Connections []models.BoardConnection `json:"connections"`
}

// GetBoard reloads the full board. Every mutating operation returns this
// so clients always converge on the store's view.
func (s *BoardService) GetBoard(teamID uint) (*BoardState, error) {
	var items []models.BoardItem
	if err := s.db.Where("team_id = ?", teamID).
		Preload("Character").
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	var connections []models.BoardConnection
	if err := s.db.Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&connections).Error; err != nil {
		return nil, err
	}

	return &BoardState{Items: items, Connections: connections}, nil
}

// AddItem pins a character. Each team may pin a character once; the
// pre-insert check gives callers a specific duplicate signal and the
// unique index closes the race behind it.
func (s *BoardService) AddItem(teamID, characterID uint, x, y float64, note string) (*BoardState, error) {
	var character models.Character
	if err := s.db.First(&character, characterID).Error; err != nil {
		return nil, errors.New("character not found")
	}
	if !character.VisibleToTeams {
		return nil, errors.New("character not available")
	}

	var count int64
	s.db.Model(&models.BoardItem{}).
		Where("team_id = ? AND character_id = ?", teamID, characterID).
		Count(&count)
	if count > 0 {
		return nil, errors.New("character already on the board")
	}

	item := models.BoardItem{
		TeamID:      teamID,
		CharacterID: characterID,
		X:           clampCoord(x),
		Y:           clampCoord(y),
		Note:        note,
	}
	if err := s.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("character already on the board")
		}
		return nil, errors.New("failed to add board item")
	}

	return s.GetBoard(teamID)
}

// UpdatePosition is last-write-wins. Concurrent drags on the same item
// race and the final position is whichever write lands last.
func (s *BoardService) UpdatePosition(teamID, itemID uint, x, y float64) (*BoardState, error) {
	var item models.BoardItem
	if err := s.db.Where("id = ? AND team_id = ?", itemID, teamID).First(&item).Error; err != nil {
		return nil, errors.New("board item not found")
	}

	item.X = clampCoord(x)
	item.Y = clampCoord(y)
	if err := s.db.Save(&item).Error; err != nil {
		return nil, errors.New("failed to update position")
	}

	return s.GetBoard(teamID)
}

// UpdateNote replaces an item's free-text note.
func (s *BoardService) UpdateNote(teamID, itemID uint, note string) (*BoardState, error) {
	res := s.db.Model(&models.BoardItem{}).
		Where("id = ? AND team_id = ?", itemID, teamID).
		Update("note", note)
	if res.Error != nil {
		return nil, errors.New("failed to update note")
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("board item not found")
	}
	return s.GetBoard(teamID)
}

// AddConnection draws a directed edge between two of the team's items.
// Self-loops are rejected; duplicate parallel edges are allowed.
func (s *BoardService) AddConnection(teamID, fromItemID, toItemID uint, note string) (*BoardState, error) {
	if fromItemID == toItemID {
		return nil, errors.New("cannot connect an item to itself")
	}

	var count int64
	s.db.Model(&models.BoardItem{}).
		Where("id IN ? AND team_id = ?", []uint{fromItemID, toItemID}, teamID).
		Count(&count)
	if count != 2 {
		return nil, errors.New("both items must be on your board")
	}

	conn := models.BoardConnection{
		TeamID:     teamID,
		FromItemID: fromItemID,
		ToItemID:   toItemID,
		Note:       note,
	}
	if err := s.db.Create(&conn).Error; err != nil {
		return nil, errors.New("failed to add connection")
	}

	return s.GetBoard(teamID)
}

// DeleteItem removes a pin and every edge touching it.
func (s *BoardService) DeleteItem(teamID, itemID uint) (*BoardState, error) {
	var item models.BoardItem
	if err := s.db.Where("id = ? AND team_id = ?", itemID, teamID).First(&item).Error; err != nil {
		return nil, errors.New("board item not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ? AND (from_item_id = ? OR to_item_id = ?)",
			teamID, itemID, itemID).Delete(&models.BoardConnection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, errors.New("failed to delete board item")
	}

	return s.GetBoard(teamID)
}

func (s *BoardService) DeleteConnection(teamID, connectionID uint) (*BoardState, error) {
	res := s.db.Where("id = ? AND team_id = ?", connectionID, teamID).
		Delete(&models.BoardConnection{})
	if res.Error != nil {
		return nil, errors.New("failed to delete connection")
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("connection not found")
	}
	return s.GetBoard(teamID)
}

// Clear empties the team's board.
func (s *BoardService) Clear(teamID uint) (*BoardState, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.BoardConnection{}).Error; err != nil {
			return err
		}
		return tx.Where("team_id = ?", teamID).Delete(&models.BoardItem{}).Error
	})
	if err != nil {
		return nil, errors.New("failed to clear board")
	}
	return s.GetBoard(teamID)
}

// Positions are unbounded above; negatives are clamped so stored pins
// stay on-canvas.
func clampCoord(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
