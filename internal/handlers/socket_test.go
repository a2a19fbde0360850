package handlers

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/database"
	"github.com/jFurkan/katil-oyunu-sub000/internal/game"
	"github.com/jFurkan/katil-oyunu-sub000/internal/limiter"
	"github.com/jFurkan/katil-oyunu-sub000/internal/models"
	"github.com/jFurkan/katil-oyunu-sub000/internal/services"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordedFrame is any frame the server wrote: acks carry an ID, pushes
// don't.
type recordedFrame struct {
	Type string          `json:"type"`
	ID   int64           `json:"id"`
	Data json.RawMessage `json:"data"`
}

type recorderConn struct {
	mu     sync.Mutex
	frames []recordedFrame
	closed bool
}

func (r *recorderConn) WriteMessage(_ int, data []byte) error {
	var frame recordedFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recorderConn) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorderConn) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.frames {
		if f.Type == event {
			n++
		}
	}
	return n
}

// lastAck decodes the data of the most recent ack frame.
func (r *recorderConn) lastAck(t *testing.T) map[string]any {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].Type == "ack" {
			var data map[string]any
			require.NoError(t, json.Unmarshal(r.frames[i].Data, &data))
			return data
		}
	}
	t.Fatal("no ack frame recorded")
	return nil
}

type testEnv struct {
	handler *SocketHandler
	hub     *ws.Hub
	machine *game.Machine
	db      *gorm.DB
	auth    *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	hub := ws.NewHub()
	clock := clockwork.NewFakeClock()
	machine := game.NewMachine(hub, clock)
	auth := services.NewAuthService("hunter2", "test-secret")

	handler := NewSocketHandler(
		hub,
		machine,
		limiter.New(clock),
		services.NewAbuseGuard(db),
		auth,
		services.NewUserService(db),
		services.NewTeamService(db),
		services.NewBoardService(db),
		services.NewCharacterService(db),
		services.NewBadgeService(db),
		services.NewCreditService(db),
		services.NewChatService(db),
		services.NewGeneralClueService(db),
	)

	return &testEnv{handler: handler, hub: hub, machine: machine, db: db, auth: auth}
}

func (e *testEnv) connect(ip string) (*ws.Client, *recorderConn) {
	rec := &recorderConn{}
	client := ws.NewClient(uuid.NewString(), ip, rec)
	e.hub.Add(client)
	return client, rec
}

var nextFrameID int64

func (e *testEnv) send(t *testing.T, client *ws.Client, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	nextFrameID++
	e.handler.dispatch(client, ws.Frame{ID: nextFrameID, Event: event, Data: data})
}

func TestAddClueRejectedWhileGameIdle(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")
	_, spectator := env.connect("10.0.0.2")

	env.send(t, client, "register-user", gin.H{"nickname": "Alice"})
	require.Equal(t, true, rec.lastAck(t)["success"])
	userID := uint(rec.lastAck(t)["user_id"].(float64))

	env.send(t, client, "create-team", gin.H{"name": "Reds", "password": "secret1", "user_id": userID})
	require.Equal(t, true, rec.lastAck(t)["success"])

	var team models.Team
	require.NoError(t, env.db.First(&team, "name = ?", "Reds").Error)

	cluesBefore := spectator.count("team-clues-update")
	env.send(t, client, "add-clue", gin.H{"team_id": team.ID, "text": "the knife is missing"})

	ack := rec.lastAck(t)
	assert.Equal(t, false, ack["success"])
	assert.Equal(t, "game not started", ack["error"])

	var clueCount int64
	env.db.Model(&models.Clue{}).Count(&clueCount)
	assert.Equal(t, int64(0), clueCount)
	assert.Equal(t, cluesBefore, spectator.count("team-clues-update"))
}

func TestUnknownEventIsAcked(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	env.send(t, client, "no-such-event", gin.H{})

	ack := rec.lastAck(t)
	assert.Equal(t, false, ack["success"])
	assert.Equal(t, "unknown event", ack["error"])
}

func TestRateLimitCheckedBeforeHandler(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	for i := 0; i < 5; i++ {
		env.send(t, client, "admin-login", gin.H{"password": "wrong"})
		assert.Equal(t, "invalid admin password", rec.lastAck(t)["error"])
	}

	// The sixth attempt is rejected by the limiter even with the right
	// password.
	env.send(t, client, "admin-login", gin.H{"password": "hunter2"})
	assert.Equal(t, "too many requests, slow down", rec.lastAck(t)["error"])
}

func TestPrivilegedEventsRequireValidToken(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	env.send(t, client, "start-game", gin.H{"minutes": 5, "title": "Act One"})
	assert.Equal(t, "admin token required", rec.lastAck(t)["error"])

	env.send(t, client, "start-game", gin.H{"minutes": 5, "title": "Act One", "token": "forged"})
	assert.Equal(t, "invalid or expired admin token", rec.lastAck(t)["error"])
	assert.False(t, env.machine.Running())

	env.send(t, client, "admin-login", gin.H{"password": "hunter2"})
	ack := rec.lastAck(t)
	require.Equal(t, true, ack["success"])
	token := ack["token"].(string)

	env.send(t, client, "start-game", gin.H{"minutes": 5, "title": "Act One", "token": token})
	assert.Equal(t, true, rec.lastAck(t)["success"])
	assert.True(t, env.machine.Running())
}

func TestAbuseGuardBlocksCreationFromHotIP(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	for i := 0; i < 10; i++ {
		record := models.IPActivity{IP: "10.0.0.1", Action: "register-user", CreatedAt: time.Now()}
		require.NoError(t, env.db.Create(&record).Error)
	}

	env.send(t, client, "register-user", gin.H{"nickname": "Mallory"})

	ack := rec.lastAck(t)
	assert.Equal(t, false, ack["success"])
	assert.Equal(t, "too many attempts from your address, try again later", ack["error"])

	var userCount int64
	env.db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(0), userCount)
}

func TestSuccessfulCreationRecordsActivity(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	env.send(t, client, "register-user", gin.H{"nickname": "Alice"})
	require.Equal(t, true, rec.lastAck(t)["success"])

	var count int64
	env.db.Model(&models.IPActivity{}).
		Where("ip = ? AND action = ?", "10.0.0.1", "register-user").
		Count(&count)
	assert.Equal(t, int64(1), count)

	// A failed attempt must not burn abuse budget.
	env.send(t, client, "register-user", gin.H{"nickname": "Alice"})
	assert.Equal(t, false, rec.lastAck(t)["success"])
	env.db.Model(&models.IPActivity{}).
		Where("ip = ? AND action = ?", "10.0.0.1", "register-user").
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDispatchRecoversFromHandlerPanic(t *testing.T) {
	env := newTestEnv(t)
	client, rec := env.connect("10.0.0.1")

	env.handler.routes["boom"] = func(_ *ws.Client, _ json.RawMessage) (gin.H, error) {
		panic("exploded")
	}

	env.send(t, client, "boom", gin.H{})

	ack := rec.lastAck(t)
	assert.Equal(t, false, ack["success"])
	assert.Equal(t, "internal error", ack["error"])
}

func TestTeamScopedBroadcastsStayInTeam(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceRec := env.connect("10.0.0.1")
	bob, bobRec := env.connect("10.0.0.2")

	env.send(t, alice, "register-user", gin.H{"nickname": "Alice"})
	aliceID := uint(aliceRec.lastAck(t)["user_id"].(float64))
	env.send(t, bob, "register-user", gin.H{"nickname": "Bob"})

	env.send(t, alice, "create-team", gin.H{"name": "Reds", "password": "secret1", "user_id": aliceID})
	require.Equal(t, true, aliceRec.lastAck(t)["success"])

	var team models.Team
	require.NoError(t, env.db.First(&team, "name = ?", "Reds").Error)

	env.send(t, alice, "send-message", gin.H{"team_id": team.ID, "text": "meet in the library"})
	require.Equal(t, true, aliceRec.lastAck(t)["success"])

	assert.Equal(t, 1, aliceRec.count("chat-message"))
	assert.Equal(t, 0, bobRec.count("chat-message"))
}
