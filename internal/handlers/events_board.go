package handlers

import (
	"encoding/json"
	"errors"

	"github.com/jFurkan/katil-oyunu-sub000/internal/services"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

// teamScope resolves which board the connection may edit: the team of the
// client's registered user. Board events never take a team id from the
// payload, so one team can never address another's board.
func (h *SocketHandler) teamScope(client *ws.Client) (uint, error) {
	user, err := h.users.GetUser(client.UserID)
	if err != nil {
		return 0, errors.New("register first")
	}
	if user.TeamID == nil {
		return 0, errors.New("join a team first")
	}
	return *user.TeamID, nil
}

func (h *SocketHandler) pushBoard(teamID uint, board *services.BoardState) {
	h.hub.BroadcastToTeam(teamID, "board-update", board)
}

func (h *SocketHandler) boardGet(client *ws.Client, _ json.RawMessage) (gin.H, error) {
	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.GetBoard(teamID)
	if err != nil {
		return nil, errors.New("failed to load board")
	}
	return gin.H{"board": board}, nil
}

type boardAddItemRequest struct {
	CharacterID uint    `json:"character_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Note        string  `json:"note"`
}

func (h *SocketHandler) boardAddItem(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardAddItemRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.AddItem(teamID, req.CharacterID, req.X, req.Y, req.Note)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

type boardPositionRequest struct {
	ItemID uint    `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (h *SocketHandler) boardUpdatePosition(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardPositionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.UpdatePosition(teamID, req.ItemID, req.X, req.Y)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

type boardNoteRequest struct {
	ItemID uint   `json:"item_id"`
	Note   string `json:"note"`
}

func (h *SocketHandler) boardUpdateNote(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardNoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.UpdateNote(teamID, req.ItemID, req.Note)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

type boardConnectionRequest struct {
	FromItemID uint   `json:"from_item_id"`
	ToItemID   uint   `json:"to_item_id"`
	Note       string `json:"note"`
}

func (h *SocketHandler) boardAddConnection(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardConnectionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.AddConnection(teamID, req.FromItemID, req.ToItemID, req.Note)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

type boardDeleteItemRequest struct {
	ItemID uint `json:"item_id"`
}

func (h *SocketHandler) boardDeleteItem(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardDeleteItemRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.DeleteItem(teamID, req.ItemID)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

type boardDeleteConnectionRequest struct {
	ConnectionID uint `json:"connection_id"`
}

func (h *SocketHandler) boardDeleteConnection(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req boardDeleteConnectionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.DeleteConnection(teamID, req.ConnectionID)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}

func (h *SocketHandler) boardClear(client *ws.Client, _ json.RawMessage) (gin.H, error) {
	teamID, err := h.teamScope(client)
	if err != nil {
		return nil, err
	}

	board, err := h.boards.Clear(teamID)
	if err != nil {
		return nil, err
	}

	h.pushBoard(teamID, board)
	return gin.H{"board": board}, nil
}
