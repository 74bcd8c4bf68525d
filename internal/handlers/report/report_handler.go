package report

import (
	"net/http"

	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetReport builds the dashboard report from current data
func (h *ReportHandler) GetReport(c *gin.Context) {
	result, err := h.reportService.Build(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to build report", err)
		return
	}

	response.Success(c, http.StatusOK, "report generated", result)
}
