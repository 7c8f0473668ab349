package completion

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"poe2guide/internal/sync"
)

// Blobs are small sets of item ids; anything bigger is a broken client.
const maxPayloadBytes = 256 * 1024

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub

	// CurrentRevision is the loaded document's revision, used as the default
	// when a request does not name one.
	CurrentRevision int
}

func NewHandler(repo *Repo, hub *sync.Hub, currentRevision int) *Handler {
	return &Handler{Repo: repo, Hub: hub, CurrentRevision: currentRevision}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/devices", h.register)
	rg.GET("/devices/:device_id/completion", h.get)
	rg.PUT("/devices/:device_id/completion", h.put)
	rg.DELETE("/devices/:device_id/completion", h.remove)
}

func (h *Handler) register(c *gin.Context) {
	id, err := h.Repo.RegisterDevice(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"device_id": id})
}

func (h *Handler) get(c *gin.Context) {
	deviceID := strings.TrimSpace(c.Param("device_id"))
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id required"})
		return
	}
	revision := h.revisionParam(c)

	state, err := h.Repo.Get(c.Request.Context(), deviceID, revision)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, state)
}

type putReq struct {
	Revision *int            `json:"revision,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

func (h *Handler) put(c *gin.Context) {
	deviceID := strings.TrimSpace(c.Param("device_id"))
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id required"})
		return
	}

	var req putReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.Payload) == 0 || !json.Valid(req.Payload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be valid JSON"})
		return
	}
	if len(req.Payload) > maxPayloadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}

	revision := h.CurrentRevision
	if req.Revision != nil {
		revision = *req.Revision
	}
	if revision < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "revision must be >= 0"})
		return
	}

	known, err := h.Repo.DeviceExists(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return
	}

	state := State{
		DeviceID:  deviceID,
		Revision:  revision,
		Payload:   req.Payload,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.Repo.Put(c.Request.Context(), state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := sync.ChecklistEvent{
			Type:     sync.EventCompletionUpdate,
			DeviceID: deviceID,
			Revision: revision,
			At:       state.UpdatedAt,
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) remove(c *gin.Context) {
	deviceID := strings.TrimSpace(c.Param("device_id"))
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id required"})
		return
	}
	revision := h.revisionParam(c)

	ok, err := h.Repo.Delete(c.Request.Context(), deviceID, revision)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := sync.ChecklistEvent{
			Type:     sync.EventCompletionClear,
			DeviceID: deviceID,
			Revision: revision,
			At:       time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) revisionParam(c *gin.Context) int {
	s := strings.TrimSpace(c.Query("revision"))
	if s == "" {
		return h.CurrentRevision
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return h.CurrentRevision
	}
	return n
}
