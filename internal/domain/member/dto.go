package member

// CreateMemberRequest inserts a team member row. IdentityID links the row to
// an auth identity when the insert is the profile step of sign-up.
type CreateMemberRequest struct {
	IdentityID int64  `json:"identity_id"`
	Username   string `json:"username" binding:"required"`
	Name       string `json:"name"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

// UpdateMemberRequest patches an existing team member.
type UpdateMemberRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}
