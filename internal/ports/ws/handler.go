package ws

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"bigtwo/internal/auth"
	"bigtwo/internal/room"
)

const identityKey = "identity"

// Handler exposes the HTTP surface: guest auth, the room API and the
// websocket upgrade endpoint.
type Handler struct {
	core     Core
	hub      *Hub
	tokens   *auth.Service
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler wires the HTTP layer to the application core.
func NewHandler(core Core, hub *Hub, tokens *auth.Service, log *zap.Logger) *Handler {
	return &Handler{
		core:   core,
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The token in the handshake is the access control; origin
			// checks do not apply to a guest game server.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Routes registers all endpoints on the engine.
func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/auth/guest", h.guest)

	api := r.Group("/", h.authenticate)
	api.GET("/rooms", h.listRooms)
	api.POST("/rooms", h.createRoom)
	api.POST("/rooms/:id/join", h.joinRoom)
	api.POST("/rooms/:id/bots", h.addBot)
	api.DELETE("/rooms/:id/bots/:botId", h.removeBot)
	api.GET("/rooms/:id/ws", h.serveWS)
}

func (h *Handler) guest(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, token, err := h.tokens.IssueGuest(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.ID, "name": id.Name, "token": token})
}

// authenticate accepts the token as a Bearer header or, for the websocket
// handshake where browsers cannot set headers, a query parameter.
func (h *Handler) authenticate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}

	who, err := h.tokens.Validate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set(identityKey, who)
	c.Next()
}

func identityFrom(c *gin.Context) auth.Identity {
	return c.MustGet(identityKey).(auth.Identity)
}

func (h *Handler) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": roomSummaries(h.core.ListRooms())})
}

func (h *Handler) createRoom(c *gin.Context) {
	v := h.core.CreateRoom(identityFrom(c))
	c.JSON(http.StatusCreated, roomSummary(v))
}

func (h *Handler) joinRoom(c *gin.Context) {
	v, err := h.core.JoinRoom(c.Param("id"), identityFrom(c))
	if err != nil {
		c.JSON(roomErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, roomSummary(v))
}

func (h *Handler) addBot(c *gin.Context) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.core.AddBot(c.Param("id"), identityFrom(c).ID, req.Difficulty); err != nil {
		c.JSON(roomErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeBot(c *gin.Context) {
	if err := h.core.RemoveBot(c.Param("id"), identityFrom(c).ID, c.Param("botId")); err != nil {
		c.JSON(roomErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// serveWS upgrades the connection for a participant already in the room.
// The upgrade is refused for non-participants so a connection always maps
// to a seat.
func (h *Handler) serveWS(c *gin.Context) {
	who := identityFrom(c)
	roomID := c.Param("id")

	v, err := h.core.JoinRoom(roomID, who)
	if err != nil {
		c.JSON(roomErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !v.Has(who.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	go NewClient(who, roomID, conn, h.hub, h.core, h.log).Serve()
}

func roomErrorStatus(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrRoomFull):
		return http.StatusConflict
	case errors.Is(err, room.ErrNotInRoom):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

type roomSummaryJSON struct {
	ID           string `json:"id"`
	HostID       string `json:"hostId"`
	Participants int    `json:"participants"`
	Capacity     int    `json:"capacity"`
}

func roomSummary(v *room.View) roomSummaryJSON {
	return roomSummaryJSON{
		ID:           v.ID,
		HostID:       v.HostID,
		Participants: len(v.Participants),
		Capacity:     room.Capacity,
	}
}

func roomSummaries(views []*room.View) []roomSummaryJSON {
	return lo.Map(views, func(v *room.View, _ int) roomSummaryJSON {
		return roomSummary(v)
	})
}
