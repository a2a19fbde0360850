package handlers

import (
	"encoding/json"
	"errors"

	"github.com/jFurkan/katil-oyunu-sub000/internal/game"
	"github.com/jFurkan/katil-oyunu-sub000/internal/models"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *SocketHandler) adminLogin(client *ws.Client, data json.RawMessage) (gin.H, error) {
	var req adminLoginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		return nil, err
	}
	return gin.H{"token": token}, nil
}

// requireAdmin re-validates the token on every privileged call instead of
// trusting a flag set earlier on the connection.
func (h *SocketHandler) requireAdmin(token string) error {
	if token == "" {
		return errors.New("admin token required")
	}
	if err := h.auth.ValidateToken(token); err != nil {
		return errors.New("invalid or expired admin token")
	}
	return nil
}

type startGameRequest struct {
	Token   string `json:"token"`
	Minutes int    `json:"minutes"`
	Title   string `json:"title"`
}

func (h *SocketHandler) startGame(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req startGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.machine.Start(req.Minutes, req.Title); err != nil {
		return nil, err
	}
	return gin.H{"state": h.machine.Snapshot()}, nil
}

type addTimeRequest struct {
	Token   string `json:"token"`
	Seconds int    `json:"seconds"`
}

func (h *SocketHandler) addTime(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req addTimeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.machine.AddTime(req.Seconds); err != nil {
		return nil, err
	}
	return gin.H{"state": h.machine.Snapshot()}, nil
}

type adminTokenRequest struct {
	Token string `json:"token"`
}

func (h *SocketHandler) endGame(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req adminTokenRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.machine.End(); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

type changeScoreRequest struct {
	Token  string `json:"token"`
	TeamID uint   `json:"team_id"`
	Delta  int    `json:"delta"`
}

func (h *SocketHandler) changeScore(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req changeScoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	team, err := h.teams.ChangeScore(req.TeamID, req.Delta)
	if err != nil {
		return nil, err
	}

	h.hub.Broadcast("score-changed", gin.H{"team_id": team.ID, "score": team.Score, "delta": req.Delta})
	h.broadcastTeams()

	return gin.H{"team": team}, nil
}

type deleteTeamRequest struct {
	Token  string `json:"token"`
	TeamID uint   `json:"team_id"`
}

func (h *SocketHandler) deleteTeam(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req deleteTeamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.teams.DeleteTeam(req.TeamID); err != nil {
		return nil, err
	}

	h.broadcastTeams()
	h.broadcastUsers()

	return gin.H{}, nil
}

type deleteUserRequest struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

func (h *SocketHandler) deleteUser(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req deleteUserRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.users.Delete(req.UserID); err != nil {
		return nil, err
	}

	h.broadcastUsers()
	return gin.H{}, nil
}

func (h *SocketHandler) resetGame(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req adminTokenRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if h.machine.Running() {
		if err := h.machine.End(); err != nil && !errors.Is(err, game.ErrNotStarted) {
			return nil, err
		}
	}
	if err := h.teams.Reset(); err != nil {
		return nil, errors.New("failed to reset game")
	}

	h.broadcastTeams()
	h.broadcastUsers()
	if clues, err := h.general.List(); err == nil {
		h.hub.Broadcast("general-clues-update", clues)
	}
	h.hub.Broadcast("notification", game.Notification{Kind: "announcement", Message: "The game has been reset."})

	return gin.H{}, nil
}

type announcementRequest struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (h *SocketHandler) broadcastAnnouncement(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req announcementRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, errors.New("message required")
	}

	h.hub.Broadcast("notification", game.Notification{Kind: "announcement", Message: req.Message})
	return gin.H{}, nil
}

type awardBadgeRequest struct {
	Token   string `json:"token"`
	TeamID  uint   `json:"team_id"`
	BadgeID uint   `json:"badge_id"`
}

func (h *SocketHandler) awardBadge(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req awardBadgeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	team, err := h.badges.Award(req.TeamID, req.BadgeID)
	if err != nil {
		return nil, err
	}

	h.broadcastTeams()
	return gin.H{"team": team}, nil
}

type createBadgeRequest struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (h *SocketHandler) createBadge(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req createBadgeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	badge, err := h.badges.Create(req.Name, req.Icon, req.Description)
	if err != nil {
		return nil, err
	}

	if badges, err := h.badges.List(); err == nil {
		h.hub.Broadcast("badges-update", badges)
	}
	return gin.H{"badge": badge}, nil
}

type deleteBadgeRequest struct {
	Token   string `json:"token"`
	BadgeID uint   `json:"badge_id"`
}

func (h *SocketHandler) deleteBadge(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req deleteBadgeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.badges.Delete(req.BadgeID); err != nil {
		return nil, err
	}

	if badges, err := h.badges.List(); err == nil {
		h.hub.Broadcast("badges-update", badges)
	}
	return gin.H{}, nil
}

type characterRequest struct {
	Token       string `json:"token"`
	CharacterID uint   `json:"character_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
	Visible     *bool  `json:"visible"`
}

func (h *SocketHandler) createCharacter(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req characterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	character, err := h.characters.Create(req.Name, req.Role, req.Description, req.PhotoURL, visible)
	if err != nil {
		return nil, err
	}

	h.broadcastCharacters()
	return gin.H{"character": character}, nil
}

func (h *SocketHandler) updateCharacter(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req characterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	character, err := h.characters.Update(req.CharacterID, req.Name, req.Role, req.Description, req.PhotoURL)
	if err != nil {
		return nil, err
	}

	h.broadcastCharacters()
	return gin.H{"character": character}, nil
}

func (h *SocketHandler) deleteCharacter(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req characterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.characters.Delete(req.CharacterID); err != nil {
		return nil, err
	}

	h.broadcastCharacters()
	return gin.H{}, nil
}

func (h *SocketHandler) setCharacterVisibility(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req characterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}
	if req.Visible == nil {
		return nil, errors.New("visible flag required")
	}

	character, err := h.characters.SetVisibility(req.CharacterID, *req.Visible)
	if err != nil {
		return nil, err
	}

	h.broadcastCharacters()
	return gin.H{"character": character}, nil
}

type generalClueRequest struct {
	Token  string `json:"token"`
	Text   string `json:"text"`
	ClueID uint   `json:"clue_id"`
}

func (h *SocketHandler) addGeneralClue(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req generalClueRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	clue, err := h.general.Add(req.Text)
	if err != nil {
		return nil, err
	}

	if clues, err := h.general.List(); err == nil {
		h.hub.Broadcast("general-clues-update", clues)
	}
	h.hub.Broadcast("notification", game.Notification{Kind: "info", Message: "A new clue has been revealed!"})

	return gin.H{"clue": clue}, nil
}

func (h *SocketHandler) deleteGeneralClue(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req generalClueRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	if err := h.general.Delete(req.ClueID); err != nil {
		return nil, err
	}

	if clues, err := h.general.List(); err == nil {
		h.hub.Broadcast("general-clues-update", clues)
	}
	return gin.H{}, nil
}

type updateCreditsRequest struct {
	Token   string          `json:"token"`
	Credits []models.Credit `json:"credits"`
}

func (h *SocketHandler) updateCredits(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req updateCreditsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	credits, err := h.credits.Replace(req.Credits)
	if err != nil {
		return nil, errors.New("failed to update credits")
	}

	h.hub.Broadcast("credits-update", credits)
	return gin.H{"credits": credits}, nil
}

type adminBoardRequest struct {
	Token  string `json:"token"`
	TeamID uint   `json:"team_id"`
}

// adminBoardGet is the read-only monitoring view: pull-based, any team.
func (h *SocketHandler) adminBoardGet(_ *ws.Client, data json.RawMessage) (gin.H, error) {
	var req adminBoardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("invalid payload")
	}
	if err := h.requireAdmin(req.Token); err != nil {
		return nil, err
	}

	board, err := h.boards.GetBoard(req.TeamID)
	if err != nil {
		return nil, errors.New("failed to load board")
	}
	return gin.H{"board": board}, nil
}
