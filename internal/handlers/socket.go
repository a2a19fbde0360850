package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/game"
	"github.com/jFurkan/katil-oyunu-sub000/internal/limiter"
	"github.com/jFurkan/katil-oyunu-sub000/internal/services"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventFunc func(client *ws.Client, data json.RawMessage) (gin.H, error)

type eventLimit struct {
	limit  int
	window time.Duration
}

// Per-event sliding-window budgets. Position drags are the chattiest
// operation by far.
var eventLimits = map[string]eventLimit{
	"register-user":         {5, time.Minute},
	"create-team":           {5, time.Minute},
	"join-team":             {10, time.Minute},
	"add-clue":              {10, time.Minute},
	"send-message":          {20, time.Minute},
	"board-add-item":        {20, time.Minute},
	"board-update-position": {120, time.Minute},
	"board-add-connection":  {30, time.Minute},
	"admin-login":           {5, time.Minute},
}

var defaultLimit = eventLimit{30, time.Minute}

// Durable per-IP budgets for creation-class events, enforced across
// connections.
var abuseLimits = map[string]struct {
	maxAllowed  int
	windowHours int
}{
	"register-user": {10, 24},
	"create-team":   {5, 24},
}

// SocketHandler owns the realtime protocol: it upgrades connections,
// pushes the initial snapshots, and dispatches client frames to event
// handlers in strict per-connection order.
type SocketHandler struct {
	hub     *ws.Hub
	machine *game.Machine
	limiter *limiter.Limiter
	guard   *services.AbuseGuard

	auth       *services.AuthService
	users      *services.UserService
	teams      *services.TeamService
	boards     *services.BoardService
	characters *services.CharacterService
	badges     *services.BadgeService
	credits    *services.CreditService
	chat       *services.ChatService
	general    *services.GeneralClueService

	routes map[string]eventFunc
}

func NewSocketHandler(
	hub *ws.Hub,
	machine *game.Machine,
	lim *limiter.Limiter,
	guard *services.AbuseGuard,
	auth *services.AuthService,
	users *services.UserService,
	teams *services.TeamService,
	boards *services.BoardService,
	characters *services.CharacterService,
	badges *services.BadgeService,
	credits *services.CreditService,
	chat *services.ChatService,
	general *services.GeneralClueService,
) *SocketHandler {
	h := &SocketHandler{
		hub:        hub,
		machine:    machine,
		limiter:    lim,
		guard:      guard,
		auth:       auth,
		users:      users,
		teams:      teams,
		boards:     boards,
		characters: characters,
		badges:     badges,
		credits:    credits,
		chat:       chat,
		general:    general,
	}

	h.routes = map[string]eventFunc{
		"register-user":  h.registerUser,
		"reconnect-user": h.reconnectUser,
		"create-team":    h.createTeam,
		"join-team":      h.joinTeam,
		"leave-team":     h.leaveTeam,
		"add-clue":       h.addClue,
		"send-message":   h.sendMessage,
		"get-messages":   h.getMessages,

		"board-get":               h.boardGet,
		"board-add-item":          h.boardAddItem,
		"board-update-position":   h.boardUpdatePosition,
		"board-update-note":       h.boardUpdateNote,
		"board-add-connection":    h.boardAddConnection,
		"board-delete-item":       h.boardDeleteItem,
		"board-delete-connection": h.boardDeleteConnection,
		"board-clear":             h.boardClear,

		"admin-login":              h.adminLogin,
		"start-game":               h.startGame,
		"add-time":                 h.addTime,
		"end-game":                 h.endGame,
		"change-score":             h.changeScore,
		"delete-team":              h.deleteTeam,
		"delete-user":              h.deleteUser,
		"reset-game":               h.resetGame,
		"broadcast-announcement":   h.broadcastAnnouncement,
		"award-badge":              h.awardBadge,
		"create-badge":             h.createBadge,
		"delete-badge":             h.deleteBadge,
		"create-character":         h.createCharacter,
		"update-character":         h.updateCharacter,
		"delete-character":         h.deleteCharacter,
		"set-character-visibility": h.setCharacterVisibility,
		"add-general-clue":         h.addGeneralClue,
		"delete-general-clue":      h.deleteGeneralClue,
		"update-credits":           h.updateCredits,
		"admin-board-get":          h.adminBoardGet,
	}
	return h
}

// HandleWS upgrades the connection, eagerly pushes the initial snapshots,
// then reads frames until the client goes away. One goroutine per
// connection; frames are processed strictly in emission order.
func (h *SocketHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(uuid.NewString(), c.ClientIP(), conn)
	h.hub.Add(client)
	defer h.disconnect(client)

	h.sendSnapshots(client)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame ws.Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Printf("ws: bad frame from %s: %v", client.ID, err)
			continue
		}
		h.dispatch(client, frame)
	}
}

// dispatch runs the validation pipeline and guarantees exactly one ack
// per frame, even if the handler panics.
func (h *SocketHandler) dispatch(client *ws.Client, frame ws.Frame) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ws: handler panic on %s from %s: %v", frame.Event, client.ID, r)
			client.Ack(frame.ID, ackError("internal error"))
		}
	}()

	handler, ok := h.routes[frame.Event]
	if !ok {
		client.Ack(frame.ID, ackError("unknown event"))
		return
	}

	lim, ok := eventLimits[frame.Event]
	if !ok {
		lim = defaultLimit
	}
	if !h.limiter.Allow(client.ID, frame.Event, lim.limit, lim.window) {
		log.Printf("ws: rate limit hit for %s on %s", client.ID, frame.Event)
		client.Ack(frame.ID, ackError("too many requests, slow down"))
		return
	}

	if abuse, guarded := abuseLimits[frame.Event]; guarded {
		if !h.guard.CheckLimit(client.IP, frame.Event, abuse.maxAllowed, abuse.windowHours) {
			client.Ack(frame.ID, ackError("too many attempts from your address, try again later"))
			return
		}
	}

	result, err := handler(client, frame.Data)
	if err != nil {
		client.Ack(frame.ID, ackError(err.Error()))
		return
	}

	if _, guarded := abuseLimits[frame.Event]; guarded {
		h.guard.RecordActivity(client.IP, frame.Event)
	}

	client.Ack(frame.ID, ackSuccess(result))
}

func (h *SocketHandler) disconnect(client *ws.Client) {
	h.limiter.RemoveConnection(client.ID)
	h.hub.Remove(client.ID)

	user, err := h.users.Disconnect(client.ID)
	if err != nil {
		log.Printf("ws: disconnect update failed for %s: %v", client.ID, err)
		return
	}
	if user != nil {
		h.broadcastUsers()
	}
}

// sendSnapshots pushes the full initial state so every client starts from
// a consistent view instead of an empty-then-patched one.
func (h *SocketHandler) sendSnapshots(client *ws.Client) {
	if teams, err := h.teams.GetTeams(); err == nil {
		client.Send("teams-update", teams)
	}
	client.Send("game-state", h.machine.Snapshot())
	if credits, err := h.credits.List(); err == nil {
		client.Send("credits-update", credits)
	}
	if clues, err := h.general.List(); err == nil {
		client.Send("general-clues-update", clues)
	}
	if badges, err := h.badges.List(); err == nil {
		client.Send("badges-update", badges)
	}
	if users, err := h.users.ListOnline(); err == nil {
		client.Send("users-update", users)
	}
	if characters, err := h.characters.ListVisible(); err == nil {
		client.Send("characters-update", characters)
	}
}

func (h *SocketHandler) broadcastTeams() {
	if teams, err := h.teams.GetTeams(); err == nil {
		h.hub.Broadcast("teams-update", teams)
	}
}

func (h *SocketHandler) broadcastUsers() {
	if users, err := h.users.ListOnline(); err == nil {
		h.hub.Broadcast("users-update", users)
	}
}

func (h *SocketHandler) broadcastCharacters() {
	if characters, err := h.characters.ListVisible(); err == nil {
		h.hub.Broadcast("characters-update", characters)
	}
}

func (h *SocketHandler) broadcastTeamClues(teamID uint) {
	if clues, err := h.teams.GetClues(teamID); err == nil {
		h.hub.BroadcastToTeam(teamID, "team-clues-update", gin.H{"team_id": teamID, "clues": clues})
	}
}

func ackSuccess(fields gin.H) gin.H {
	ack := gin.H{"success": true}
	for k, v := range fields {
		ack[k] = v
	}
	return ack
}

func ackError(msg string) gin.H {
	return gin.H{"success": false, "error": msg}
}
