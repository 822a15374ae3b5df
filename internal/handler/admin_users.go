package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/utils"
)

// UserAdminHandler is the admin-only user management surface. Batch
// assignment lives here: the engine reads a user's batch from the JWT,
// so a batch change takes effect on the user's next login.
type UserAdminHandler struct {
	Users      *repository.UserRepo
	Logger     *zap.Logger
	BcryptCost int
}

// NewUserAdminHandler constructs a UserAdminHandler.
func NewUserAdminHandler(users *repository.UserRepo, logger *zap.Logger, bcryptCost int) *UserAdminHandler {
	if users == nil || logger == nil {
		panic("nil dependency passed to NewUserAdminHandler")
	}
	return &UserAdminHandler{Users: users, Logger: logger, BcryptCost: bcryptCost}
}

// List handles GET /v1/admin/users.
func (h *UserAdminHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]userJSON, 0, len(users))
	for i := range users {
		out = append(out, toUserJSON(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Create handles POST /v1/admin/users. Unlike self-registration the
// role is caller controlled, which is how further admins get created.
func (h *UserAdminHandler) Create(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Batch    string `json:"batch"`
		Squad    string `json:"squad"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}
	role, ok := normalizeRole(body.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or EMPLOYEE"})
	}
	batch, ok := normalizeBatch(body.Batch)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "batch must be A, B or NONE"})
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}
	u := &model.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Role:         role,
		Batch:        batch,
		Squad:        body.Squad,
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Logger.Info("user created by admin",
		zap.Uint64("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("batch", u.Batch),
	)
	return c.JSON(http.StatusCreated, echo.Map{"user": toUserJSON(u)})
}

// Update handles PUT /v1/admin/users/:id. Sends the full profile;
// omitted fields fall back to their current values.
func (h *UserAdminHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Users.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Role  *string `json:"role"`
		Batch *string `json:"batch"`
		Squad *string `json:"squad"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		u.Name = strings.TrimSpace(*body.Name)
	}
	if body.Email != nil {
		u.Email = strings.TrimSpace(strings.ToLower(*body.Email))
	}
	if body.Role != nil {
		role, ok := normalizeRole(*body.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or EMPLOYEE"})
		}
		u.Role = role
	}
	if body.Batch != nil {
		batch, ok := normalizeBatch(*body.Batch)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "batch must be A, B or NONE"})
		}
		u.Batch = batch
	}
	if body.Squad != nil {
		u.Squad = *body.Squad
	}
	if u.Name == "" || u.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email cannot be empty"})
	}

	if err := h.Users.Update(c.Request().Context(), u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserJSON(u)})
}

// Delete handles DELETE /v1/admin/users/:id. The user's bookings go
// with the account.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if actor.ID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Logger.Info("user deleted by admin", zap.Uint64("user_id", id))
	return c.NoContent(http.StatusNoContent)
}

func paramID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func normalizeRole(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", model.RoleEmployee:
		return model.RoleEmployee, true
	case model.RoleAdmin:
		return model.RoleAdmin, true
	}
	return "", false
}
