package activity

import (
	"net/http"
	"strconv"

	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/activity"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity returns the most recent activity entries
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = parsed
	}

	result, err := h.activityService.List(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, "failed to list activity", err)
		return
	}

	response.Success(c, http.StatusOK, "activity retrieved", result)
}
