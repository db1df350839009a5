package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-reservation/config"
	"hotel-reservation/models"
	"hotel-reservation/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *services.TokenService

	admin, agent, guest, otherGuest models.User
}

func buildTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	var settings config.Settings
	settings.Seed.AdminUsername = "admin"
	settings.Seed.AdminEmail = "admin@hotel.local"
	settings.Seed.AdminPassword = "admin-password"
	settings.Seed.SampleRooms = true
	config.SeedDatabase(db, settings)

	users := services.NewUserService(db)
	reservations := services.NewReservationService(db, services.NoopMailer{})
	reservations.Now = func() time.Time { return time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC) }
	tokens := services.NewTokenService("test-secret", time.Hour, 24*time.Hour)

	app := &testApp{
		router: SetupRouter(Dependencies{
			Reservations: reservations,
			RoomTypes:    services.NewRoomTypeService(db),
			Rooms:        services.NewRoomService(db),
			Users:        users,
			Tokens:       tokens,
		}),
		db:     db,
		tokens: tokens,
	}

	require.NoError(t, db.Where("username = ?", "admin").First(&app.admin).Error)
	mk := func(name string, role models.Role) models.User {
		u, err := users.Create(t.Context(), services.UserInput{
			Username: name, Email: name + "@example.com", Password: "password123", Role: role,
		})
		require.NoError(t, err)
		return *u
	}
	app.agent = mk("agent", models.RoleAgent)
	app.guest = mk("guest", models.RoleGuest)
	app.otherGuest = mk("guest2", models.RoleGuest)
	return app
}

func (a *testApp) token(t *testing.T, u models.User) string {
	t.Helper()
	access, err := a.tokens.IssueAccess(u)
	require.NoError(t, err)
	return access
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func (a *testApp) roomTypeID(t *testing.T, name string) uint {
	t.Helper()
	var rt models.RoomType
	require.NoError(t, a.db.Where("name = ?", name).First(&rt).Error)
	return rt.ID
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v), resp.Body.String())
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestAuthenticationRequired(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/roomtypes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = app.do(t, http.MethodGet, "/api/roomtypes", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	pair, err := app.tokens.Issue(app.guest)
	require.NoError(t, err)
	resp = app.do(t, http.MethodGet, "/api/roomtypes", pair.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code, "refresh tokens are not bearer credentials")

	deleted := models.User{ID: 999, Role: models.RoleAdmin}
	resp = app.do(t, http.MethodGet, "/api/roomtypes", app.token(t, deleted), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRoleMatrix(t *testing.T) {
	app := buildTestApp(t)
	cases := []struct {
		method, path        string
		body                interface{}
		admin, agent, guest int
	}{
		{http.MethodGet, "/api/roomtypes", nil, 200, 200, 200},
		{http.MethodGet, "/api/rooms", nil, 200, 200, 403},
		{http.MethodGet, "/api/reservations", nil, 200, 200, 403},
		{http.MethodGet, "/api/users", nil, 200, 200, 403},
		{http.MethodGet, "/api/roles", nil, 200, 403, 403},
		{http.MethodPost, "/api/roomtypes", map[string]interface{}{"name": "Suite", "capacity": 2, "price_per_night": 300}, 201, 403, 403},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.admin, app.do(t, tc.method, tc.path, app.token(t, app.admin), tc.body).Code, "admin")
			assert.Equal(t, tc.agent, app.do(t, tc.method, tc.path, app.token(t, app.agent), tc.body).Code, "agent")
			assert.Equal(t, tc.guest, app.do(t, tc.method, tc.path, app.token(t, app.guest), tc.body).Code, "guest")
		})
	}
}

func TestRegisterLoginRefresh(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "newguest", "email": "newguest@example.com", "password": "password123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created models.User
	decode(t, resp, &created)
	assert.Equal(t, models.RoleGuest, created.Role)
	assert.NotContains(t, resp.Body.String(), "password")

	resp = app.do(t, http.MethodPost, "/api/token", "", map[string]string{"username": "newguest", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = app.do(t, http.MethodPost, "/api/token", "", map[string]string{"username": "newguest", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.Code)
	var pair services.TokenPair
	decode(t, resp, &pair)

	resp = app.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, resp.Code)
	var refreshed struct {
		Access string `json:"access"`
	}
	decode(t, resp, &refreshed)

	resp = app.do(t, http.MethodGet, "/api/roomtypes", refreshed.Access, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var types []models.RoomType
	decode(t, resp, &types)
	assert.Len(t, types, 4, "sample rooms are seeded")
}

type reservationBody struct {
	ID           uint   `json:"id"`
	User         *uint  `json:"user"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	AssignedRoom uint   `json:"assigned_room"`
	RoomType     uint   `json:"room_type"`
	Nights       int    `json:"nights"`
	Cost         uint   `json:"cost"`
}

func TestCreateReservationEndpoint(t *testing.T) {
	app := buildTestApp(t)
	seaSmall := app.roomTypeID(t, "Sea View Room (small)")
	guestToken := app.token(t, app.guest)

	resp := app.do(t, http.MethodPost, "/api/reservation", guestToken, map[string]interface{}{
		"check_in_date": "2025-10-10", "check_out_date": "2025-10-15", "selected_room_type": seaSmall,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var res reservationBody
	decode(t, resp, &res)
	assert.Equal(t, seaSmall, res.RoomType)
	assert.Equal(t, "2025-10-10", res.CheckInDate)
	assert.Equal(t, "2025-10-15", res.CheckOutDate)
	assert.Equal(t, 5, res.Nights)
	assert.Equal(t, uint(600), res.Cost)
	require.NotNil(t, res.User)
	assert.Equal(t, app.guest.ID, *res.User, "guests book for themselves")

	resp = app.do(t, http.MethodPost, "/api/reservation", guestToken, map[string]interface{}{
		"user": app.otherGuest.ID, "check_in_date": "2025-10-10", "check_out_date": "2025-10-15", "selected_room_type": seaSmall,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// the second room of the type, then none
	agentToken := app.token(t, app.agent)
	resp = app.do(t, http.MethodPost, "/api/reservation", agentToken, map[string]interface{}{
		"user": app.otherGuest.ID, "check_in_date": "2025-10-11", "check_out_date": "2025-10-12", "selected_room_type": seaSmall,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var second reservationBody
	decode(t, resp, &second)
	assert.NotEqual(t, res.AssignedRoom, second.AssignedRoom)

	resp = app.do(t, http.MethodPost, "/api/reservation", agentToken, map[string]interface{}{
		"check_in_date": "2025-10-11", "check_out_date": "2025-10-12", "selected_room_type": seaSmall,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.noRoomAvailable", errorCode(t, resp))

	cases := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{"reversed", map[string]interface{}{"check_in_date": "2025-10-15", "check_out_date": "2025-10-10", "selected_room_type": seaSmall}, "error.invalidDateRange"},
		{"past", map[string]interface{}{"check_in_date": "2025-09-01", "check_out_date": "2025-09-03", "selected_room_type": seaSmall}, "error.checkInInPast"},
		{"bad format", map[string]interface{}{"check_in_date": "10/10/2025", "check_out_date": "2025-10-15", "selected_room_type": seaSmall}, "error.invalidDate"},
		{"unknown room type", map[string]interface{}{"check_in_date": "2025-10-10", "check_out_date": "2025-10-15", "selected_room_type": 9999}, "error.invalidReference"},
		{"missing room type", map[string]interface{}{"check_in_date": "2025-10-10", "check_out_date": "2025-10-15"}, "error.invalidPayload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := app.do(t, http.MethodPost, "/api/reservation", agentToken, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}

	// ownership on retrieve
	path := fmt.Sprintf("/api/reservations/%d", res.ID)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, path, guestToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, path, app.token(t, app.otherGuest), nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, path, agentToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/reservations/9999", agentToken, nil).Code)
}

func TestReservationEditEndpoints(t *testing.T) {
	app := buildTestApp(t)
	poolSmall := app.roomTypeID(t, "Pool View Room (small)")
	poolLarge := app.roomTypeID(t, "Pool View Room (large)")
	agentToken := app.token(t, app.agent)

	create := func(typeID uint, in, out string) reservationBody {
		resp := app.do(t, http.MethodPost, "/api/reservation", agentToken, map[string]interface{}{
			"check_in_date": in, "check_out_date": out, "selected_room_type": typeID,
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		var r reservationBody
		decode(t, resp, &r)
		return r
	}
	a := create(poolSmall, "2025-10-10", "2025-10-15")
	b := create(poolSmall, "2025-10-12", "2025-10-18")
	require.NotEqual(t, a.AssignedRoom, b.AssignedRoom)

	// dates: collide with a later stay on the same room
	later := create(poolSmall, "2025-10-20", "2025-10-25")
	require.Equal(t, a.AssignedRoom, later.AssignedRoom)
	resp := app.do(t, http.MethodPut, fmt.Sprintf("/api/updatereservationdates/%d", a.ID), agentToken,
		map[string]string{"check_in_date": "2025-10-14", "check_out_date": "2025-10-21"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.conflictingReservation", errorCode(t, resp))

	resp = app.do(t, http.MethodPatch, fmt.Sprintf("/api/updatereservationdates/%d", a.ID), agentToken,
		map[string]string{"check_out_date": "2025-10-20"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var moved reservationBody
	decode(t, resp, &moved)
	assert.Equal(t, "2025-10-10", moved.CheckInDate)
	assert.Equal(t, "2025-10-20", moved.CheckOutDate)

	resp = app.do(t, http.MethodPut, "/api/updatereservationdates/9999", agentToken,
		map[string]string{"check_in_date": "2025-11-01", "check_out_date": "2025-11-02"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// room: b's room is taken over a's range, a large room is free
	resp = app.do(t, http.MethodPut, fmt.Sprintf("/api/updatereservationroom/%d", a.ID), agentToken,
		map[string]uint{"assigned_room": b.AssignedRoom})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.conflictingReservation", errorCode(t, resp))

	var largeRoom models.Room
	require.NoError(t, app.db.Where("room_type_id = ?", poolLarge).Order("id").First(&largeRoom).Error)
	resp = app.do(t, http.MethodPatch, fmt.Sprintf("/api/updatereservationroom/%d", a.ID), agentToken,
		map[string]uint{"assigned_room": largeRoom.ID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	decode(t, resp, &moved)
	assert.Equal(t, largeRoom.ID, moved.AssignedRoom)
	assert.Equal(t, poolLarge, moved.RoomType)

	resp = app.do(t, http.MethodPut, fmt.Sprintf("/api/updatereservationroom/%d", a.ID), agentToken,
		map[string]uint{"assigned_room": 9999})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.invalidReference", errorCode(t, resp))

	guestToken := app.token(t, app.guest)
	resp = app.do(t, http.MethodPut, fmt.Sprintf("/api/updatereservationroom/%d", a.ID), guestToken,
		map[string]uint{"assigned_room": largeRoom.ID})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// list, export, delete
	resp = app.do(t, http.MethodGet, "/api/reservations?start_date=2025-10-19&page_size=2", agentToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page struct {
		Count   int64             `json:"count"`
		Results []reservationBody `json:"results"`
	}
	decode(t, resp, &page)
	assert.Equal(t, int64(2), page.Count, "a (now ending 10-20) and the later stay")
	assert.Len(t, page.Results, 2)

	resp = app.do(t, http.MethodGet, "/api/reservations?start_date=yesterday", agentToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = app.do(t, http.MethodGet, "/api/reservations/export", agentToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, resp.Body.Len())

	path := fmt.Sprintf("/api/reservations/%d", b.ID)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, path, agentToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, path, agentToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, path, agentToken, nil).Code)
}

func TestCatalogAndUserEndpoints(t *testing.T) {
	app := buildTestApp(t)
	adminToken := app.token(t, app.admin)

	resp := app.do(t, http.MethodPost, "/api/roomtypes", adminToken, map[string]interface{}{"name": "Suite", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.invalidRoomType", errorCode(t, resp))

	resp = app.do(t, http.MethodPost, "/api/roomtypes", adminToken, map[string]interface{}{"name": "Suite", "capacity": 2, "price_per_night": 300})
	require.Equal(t, http.StatusCreated, resp.Code)
	var suite models.RoomType
	decode(t, resp, &suite)

	resp = app.do(t, http.MethodPost, "/api/rooms", adminToken, map[string]interface{}{"room_type": suite.ID, "number": "S1"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var room models.Room
	decode(t, resp, &room)
	assert.Equal(t, suite.ID, room.RoomTypeID)

	resp = app.do(t, http.MethodPost, "/api/rooms", adminToken, map[string]interface{}{"room_type": 9999, "number": "S2"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = app.do(t, http.MethodPatch, fmt.Sprintf("/api/roomtypes/%d", suite.ID), adminToken, map[string]interface{}{"price_per_night": 350})
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp, &suite)
	assert.Equal(t, uint(350), suite.PricePerNight)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/roomtypes/9999", adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/roomtypes/abc", adminToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", room.ID), adminToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, fmt.Sprintf("/api/roomtypes/%d", suite.ID), adminToken, nil).Code)

	// users: self read for a guest, nothing else
	guestToken := app.token(t, app.guest)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", app.guest.ID), guestToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", app.agent.ID), guestToken, nil).Code)

	resp = app.do(t, http.MethodPost, "/api/users", adminToken, map[string]string{
		"username": "agent2", "email": "agent2@example.com", "password": "password123", "role": "agent",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var agent2 models.User
	decode(t, resp, &agent2)
	assert.Equal(t, models.RoleAgent, agent2.Role)

	resp = app.do(t, http.MethodPost, "/api/users", adminToken, map[string]string{
		"username": "agent2", "email": "agent3@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.duplicateUser", errorCode(t, resp))

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", app.admin.ID), adminToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", agent2.ID), adminToken, nil).Code)

	resp = app.do(t, http.MethodGet, "/api/roles", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var roles []struct {
		Name        string                     `json:"name"`
		Members     int64                      `json:"members"`
		Permissions map[string]map[string]bool `json:"permissions"`
	}
	decode(t, resp, &roles)
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, int64(1), roles[0].Members)
	assert.True(t, roles[0].Permissions["roles"]["list"])
	assert.Equal(t, int64(2), roles[2].Members)
}
