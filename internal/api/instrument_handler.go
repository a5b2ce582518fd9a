package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photonworks/facility-scheduler-backend/internal/auth"
	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/instrument"
	"github.com/photonworks/facility-scheduler-backend/internal/permission"
	"github.com/photonworks/facility-scheduler-backend/internal/pkg/request"
	"github.com/photonworks/facility-scheduler-backend/internal/pkg/response"
)

// InstrumentHandler serves the instrument catalogue consumed by the
// scheduling calendar.
type InstrumentHandler struct {
	repo instrument.Repository
}

func NewInstrumentHandler(repo instrument.Repository) *InstrumentHandler {
	return &InstrumentHandler{repo: repo}
}

// InstrumentResponse is the JSON shape of one instrument.
type InstrumentResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ShortCode   string  `json:"short_code"`
	Description *string `json:"description"`
}

func (h *InstrumentHandler) List(c *gin.Context) {
	caller, ok := auth.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := permission.RequireRole(caller, identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		response.Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	filter := instrument.Filter{
		Name:     c.Query("name"),
		Page:     page,
		PageSize: pageSize,
	}

	instruments, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]InstrumentResponse, len(instruments))
	for i, ins := range instruments {
		items[i] = InstrumentResponse{
			ID:          ins.ID,
			Name:        ins.Name,
			ShortCode:   ins.ShortCode,
			Description: ins.Description,
		}
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *InstrumentHandler) Get(c *gin.Context) {
	caller, ok := auth.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := permission.RequireRole(caller, identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		response.Error(c, err)
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ins, err := h.repo.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, instrument.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "instrument not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, InstrumentResponse{
		ID:          ins.ID,
		Name:        ins.Name,
		ShortCode:   ins.ShortCode,
		Description: ins.Description,
	})
}
