package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerBody struct {
	Name     string `json:"name" binding:"required"`
	Lastname string `json:"lastname" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type switchBody struct {
	GymID string `json:"gymId" binding:"required"`
}

// Handlers serves the stub routes
type Handlers struct {
	store *Store
}

// NewHandlers creates handlers over store
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Login handles POST /api/user/login
func (h *Handlers) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	resp, err := h.store.Login(body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register handles POST /api/user/register
func (h *Handlers) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "All fields are required and the email must be valid")
		return
	}

	token, user, err := h.store.Register(types.Registration(body))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gateway.RegisterResponse{Token: token, User: user})
}

// Profile handles GET /api/user/profile
func (h *Handlers) Profile(c *gin.Context) {
	resp, err := h.store.Profile(c.GetString(userKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SwitchActive handles PUT /api/user/active-gym
func (h *Handlers) SwitchActive(c *gin.Context) {
	var body switchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "gymId is required")
		return
	}

	gym, err := h.store.SwitchActive(c.GetString(userKey), body.GymID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gateway.SwitchResponse{ActiveWorkspace: &gym})
}

// UpdateProfile handles PUT /api/user/update-profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var body types.ProfileUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid profile data")
		return
	}

	user, err := h.store.UpdateProfile(c.GetString(userKey), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gateway.UserResponse{User: user})
}

// DeleteAccount handles DELETE /api/user
func (h *Handlers) DeleteAccount(c *gin.Context) {
	if err := h.store.DeleteAccount(c.GetString(userKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// CreateGym handles POST /api/gym/crear
func (h *Handlers) CreateGym(c *gin.Context) {
	var body types.WorkspaceDraft
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid gym data")
		return
	}

	gym, err := h.store.CreateGym(c.GetString(userKey), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gateway.WorkspaceResponse{Workspace: gym})
}

// UpdateGym handles PUT /api/gym/:id
func (h *Handlers) UpdateGym(c *gin.Context) {
	var body types.WorkspaceDraft
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid gym data")
		return
	}

	gym, err := h.store.UpdateGym(c.GetString(userKey), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gateway.WorkspaceResponse{Workspace: gym})
}

// DeleteGym handles DELETE /api/gym/:id
func (h *Handlers) DeleteGym(c *gin.Context) {
	if err := h.store.DeleteGym(c.GetString(userKey), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gym deleted"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gateway.ErrorResponse{Message: message})
}

func respondError(c *gin.Context, err error) {
	f := asFailure(err)
	c.JSON(f.Status, gateway.ErrorResponse{Message: f.Message})
}
