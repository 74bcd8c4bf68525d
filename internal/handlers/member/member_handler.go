package member

import (
	"net/http"
	"strconv"

	"dashflow-service/internal/domain/member"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/member"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// CreateMember creates a team-member profile
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req member.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.memberService.CreateMember(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FromError(c, "failed to create member", err)
		return
	}

	response.Success(c, http.StatusCreated, "member created successfully", result)
}

// GetMember retrieves a team member by ID
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid member ID", err)
		return
	}

	result, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "member not found", err)
		return
	}

	response.Success(c, http.StatusOK, "member retrieved", result)
}

// ListMembers lists all team members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	result, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list members", err)
		return
	}

	response.Success(c, http.StatusOK, "members retrieved", result)
}

// UpdateMember applies a partial update to a team member
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid member ID", err)
		return
	}

	var req member.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.memberService.UpdateMember(c.Request.Context(), middleware.GetEmail(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to update member", err)
		return
	}

	response.Success(c, http.StatusOK, "member updated successfully", result)
}

// DeleteMember removes a team member
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid member ID", err)
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), middleware.GetEmail(c), id); err != nil {
		response.FromError(c, "failed to delete member", err)
		return
	}

	response.Success(c, http.StatusOK, "member deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
