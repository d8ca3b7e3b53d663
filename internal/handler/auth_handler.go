package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/peka1011-dev/peka-blog/internal/db"
	"github.com/peka1011-dev/peka-blog/internal/service"
)

const (
	sessionUserIDKey = "user_id"
	sessionRoleKey   = "user_role"
)

// sessionIdentity is the authenticated caller as recorded in the cookie
// session.
type sessionIdentity struct {
	UserID string
	Role   db.Role
}

// currentIdentity extracts the session identity, if any.
func currentIdentity(c *gin.Context) (sessionIdentity, bool) {
	session := sessions.Default(c)

	userID, ok := session.Get(sessionUserIDKey).(string)
	if !ok || userID == "" {
		return sessionIdentity{}, false
	}

	roleRaw, _ := session.Get(sessionRoleKey).(string)
	return sessionIdentity{UserID: userID, Role: db.ParseRole(roleRaw)}, true
}

// AuthRequired rejects requests without a session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentIdentity(c); !ok {
			respondError(c, http.StatusUnauthorized, "login required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired rejects requests whose session role is not ADMIN.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "login required")
			c.Abort()
			return
		}

		switch identity.Role {
		case db.RoleAdmin:
		case db.RoleUser:
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		default:
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Register creates a new USER account.
func (a *API) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"`
	}
	if !bindJSON(c, &input, "email and a password of at least 6 characters are required") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "email already registered")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration complete", "user": user})
}

// Login verifies the credentials and starts a cookie session carrying the
// user id and role.
func (a *API) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input, "email and password are required") {
		return
	}

	user, err := a.users.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionRoleKey, string(user.Role))
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// Logout clears the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the account behind the current session.
func (a *API) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	user, err := a.users.Get(identity.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
