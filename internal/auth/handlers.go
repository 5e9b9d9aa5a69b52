package auth

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/entities"
)

// Controller serves the /api/auth endpoints.
type Controller struct {
	service  *Service
	sessions *SessionManager

	// setupMu serializes setup so two requests cannot both create the first admin.
	setupMu sync.Mutex
}

func NewController(service *Service, sessions *SessionManager) *Controller {
	return &Controller{service: service, sessions: sessions}
}

// RegisterRoutes mounts the auth endpoints under group.
func (ac *Controller) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/setup", ac.Setup)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/me", ac.Me)
	group.POST("/token", ac.GenerateToken)
	group.DELETE("/token", ac.RevokeToken)
}

type credentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type setupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Setup creates the first admin account. It is refused once any user exists.
func (ac *Controller) Setup(c *gin.Context) {
	ac.setupMu.Lock()
	defer ac.setupMu.Unlock()

	ctx := c.Request.Context()
	hasUsers, err := ac.service.HasUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if hasUsers {
		c.JSON(http.StatusConflict, gin.H{"error": "setup already completed"})
		return
	}

	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.service.CreateUser(ctx, req.Username, req.Email, req.Password, entities.UserRoleAdmin)
	if err != nil {
		c.JSON(userErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *Controller) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := ac.service.Authenticate(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "account is locked, try again later"})
		return
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if ac.sessions != nil {
		if err := ac.sessions.CreateSession(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

func (ac *Controller) Logout(c *gin.Context) {
	if ac.sessions != nil {
		_ = ac.sessions.DestroySession(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

// Me returns the acting user.
func (ac *Controller) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == DefaultUserID {
		c.JSON(http.StatusOK, gin.H{"user_id": DefaultUserID, "auth_type": GetAuthType(c)})
		return
	}
	user, err := ac.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "auth_type": GetAuthType(c), "csrf_token": GetCSRFToken(c)})
}

// GenerateToken issues a new API token for the authenticated user.
func (ac *Controller) GenerateToken(c *gin.Context) {
	userID := GetUserID(c)
	if userID == DefaultUserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	token, err := ac.service.GenerateToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

func (ac *Controller) RevokeToken(c *gin.Context) {
	userID := GetUserID(c)
	if userID == DefaultUserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := ac.service.RevokeToken(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}

func userErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrUsernameInvalid),
		errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong), errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
