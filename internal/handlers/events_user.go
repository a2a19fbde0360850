package handlers

import (
	"encoding/json"
	"errors"

	"github.com/jFurkan/katil-oyunu-sub000/internal/game"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

type registerUserRequest struct {
	Nickname string `json:"nickname"`
}

func (h *SocketHandler) registerUser(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req registerUserRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	user, err := h.users.Register(req.Nickname, client.ID)
	if err != nil {
		return nil, err
	}

	client.UserID = user.ID
	h.broadcastUsers()

	return gin.H{"user_id": user.ID, "nickname": user.Nickname}, nil
}

type reconnectUserRequest struct {
	UserID uint `json:"user_id"`
}

func (h *SocketHandler) reconnectUser(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req reconnectUserRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	user, err := h.users.Reconnect(req.UserID, client.ID)
	if err != nil {
		return nil, err
	}

	client.UserID = user.ID
	if user.TeamID != nil {
		h.hub.JoinTeam(*user.TeamID, client.ID)
	}
	h.broadcastUsers()

	return gin.H{"user": user}, nil
}

type createTeamRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	UserID   uint   `json:"user_id"`
	Avatar   string `json:"avatar"`
	Color    string `json:"color"`
}

func (h *SocketHandler) createTeam(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req createTeamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	team, err := h.teams.CreateTeam(req.Name, req.Password, req.UserID, req.Avatar, req.Color)
	if err != nil {
		return nil, err
	}

	h.hub.JoinTeam(team.ID, client.ID)
	h.broadcastTeams()
	h.broadcastUsers()

	return gin.H{"team": team}, nil
}

type joinTeamRequest struct {
	TeamID   uint   `json:"team_id"`
	Password string `json:"password"`
	UserID   uint   `json:"user_id"`
}

func (h *SocketHandler) joinTeam(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req joinTeamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	team, err := h.teams.JoinTeam(req.TeamID, req.Password, req.UserID)
	if err != nil {
		return nil, err
	}

	h.hub.JoinTeam(team.ID, client.ID)
	h.broadcastTeams()
	h.broadcastUsers()

	return gin.H{"team": team}, nil
}

func (h *SocketHandler) leaveTeam(client *ws.Client, _ json.RawMessage) (gin.H, error) {
	user, err := h.users.GetUser(client.UserID)
	if err != nil {
		return nil, errors.New("register first")
	}

	if err := h.teams.LeaveTeam(user.ID); err != nil {
		return nil, err
	}

	if user.TeamID != nil {
		h.hub.LeaveTeam(*user.TeamID, client.ID)
	}
	h.broadcastTeams()
	h.broadcastUsers()

	return gin.H{}, nil
}

type addClueRequest struct {
	TeamID uint   `json:"team_id"`
	Text   string `json:"text"`
}

func (h *SocketHandler) addClue(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req addClueRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	if !h.machine.Running() {
		return nil, game.ErrNotStarted
	}

	user, err := h.users.GetUser(client.UserID)
	if err != nil {
		return nil, errors.New("register first")
	}
	if user.TeamID == nil || *user.TeamID != req.TeamID {
		return nil, errors.New("you are not in this team")
	}

	clue, err := h.teams.AddClue(req.TeamID, req.Text)
	if err != nil {
		return nil, err
	}

	h.broadcastTeamClues(req.TeamID)
	h.broadcastTeams()

	return gin.H{"clue": clue}, nil
}

type sendMessageRequest struct {
	TeamID uint   `json:"team_id"`
	Text   string `json:"text"`
}

func (h *SocketHandler) sendMessage(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req sendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	msg, err := h.chat.Send(req.TeamID, client.UserID, req.Text)
	if err != nil {
		return nil, err
	}

	h.hub.BroadcastToTeam(req.TeamID, "chat-message", msg)

	return gin.H{"message": msg}, nil
}

type getMessagesRequest struct {
	TeamID uint `json:"team_id"`
}

func (h *SocketHandler) getMessages(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req getMessagesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	user, err := h.users.GetUser(client.UserID)
	if err != nil {
		return nil, errors.New("register first")
	}
	if user.TeamID == nil || *user.TeamID != req.TeamID {
		return nil, errors.New("you are not in this team")
	}

	messages, err := h.chat.Recent(req.TeamID)
	if err != nil {
		return nil, errors.New("failed to load messages")
	}

	return gin.H{"messages": messages}, nil
}
