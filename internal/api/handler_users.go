package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
	"appliance-alerts-backend/internal/store"
)

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]entity.Payload, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToPayload())
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.ToPayload())
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(c *gin.Context) {
	p, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := model.UserFromJSON(p)
	if err != nil {
		respondError(c, badRequestf("%v", err))
		return
	}
	u.ID = 0
	if err := errs.NewValidationError(u.Validate()); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u.ToPayload())
}

// UpdateUser handles PATCH /users/:id. A "password" in the patch replaces the
// stored hash.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	patch, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	delete(patch, "id")

	cur, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	next, err := model.UserFromJSON(cur.ToPayload().Merge(patch))
	if err != nil {
		respondError(c, badRequestf("%v", err))
		return
	}
	if err := errs.NewValidationError(next.Validate()); err != nil {
		respondError(c, err)
		return
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.PasswordHash = cur.PasswordHash
	next.PasswordSalt = cur.PasswordSalt

	if err := h.store.SaveUser(c.Request.Context(), next); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, next.ToPayload())
}

// DeleteUser handles DELETE /users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login. It answers with the user on success.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequestf("email and password are required"))
		return
	}
	u, err := h.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.ToPayload())
}
