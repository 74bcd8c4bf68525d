package middleware

import "github.com/gin-gonic/gin"

// GetIdentityID gets the authenticated identity ID from context
func GetIdentityID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("identity_id")
	if !exists {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}

// GetJTI gets the access-token JTI from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jti, ok := v.(string)
	return jti, ok
}

// GetEmail gets the authenticated email from context
func GetEmail(c *gin.Context) string {
	v, exists := c.Get("email")
	if !exists {
		return ""
	}

	email, _ := v.(string)
	return email
}

// MustGetIdentityID gets identity ID from context or panics
func MustGetIdentityID(c *gin.Context) int64 {
	identityID, exists := GetIdentityID(c)
	if !exists {
		panic("identity_id not found in context")
	}
	return identityID
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}
