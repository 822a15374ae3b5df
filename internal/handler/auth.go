package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/utils"
)

// AuthHandler implements registration, login and the /me endpoint.
// Tokens are single long-lived JWTs carrying the (user, role, batch)
// identity triple the engine operates on.
type AuthHandler struct {
	Users       *repository.UserRepo
	JWTSecret   string
	TokenTTLDay int
	BcryptCost  int
}

// NewAuthHandler constructs an AuthHandler bound to the user repository.
func NewAuthHandler(users *repository.UserRepo, jwtSecret string, tokenTTLDay, bcryptCost int) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, JWTSecret: jwtSecret, TokenTTLDay: tokenTTLDay, BcryptCost: bcryptCost}
}

// userJSON is the sanitized user shape returned by auth endpoints; the
// password hash never leaves this package.
type userJSON struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Batch string `json:"batch"`
	Squad string `json:"squad"`
}

func toUserJSON(u *model.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Batch: u.Batch, Squad: u.Squad}
}

// Register handles POST /v1/auth/register. Self-registration always
// creates an EMPLOYEE; admins are created through the admin endpoints.
// Returns 201 with the user and a signed token, or 409 when the email
// is taken.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
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
		Role:         model.RoleEmployee,
		Batch:        batch,
		Squad:        body.Squad,
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, u.Batch, h.TokenTTLDay)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user":  toUserJSON(u),
		"token": tok.Token,
	})
}

// Login handles POST /v1/auth/login. Returns 200 with the user and a
// fresh token, or 401 on bad credentials. The same message covers an
// unknown email and a wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	u, err := h.Users.ByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, u.Batch, h.TokenTTLDay)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":  toUserJSON(u),
		"token": tok.Token,
	})
}

// Me handles GET /v1/me and returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.ByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserJSON(u)})
}

// normalizeBatch maps the request value onto a valid batch, defaulting
// empty to NONE.
func normalizeBatch(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return model.BatchNone, true
	case model.BatchA:
		return model.BatchA, true
	case model.BatchB:
		return model.BatchB, true
	case model.BatchNone:
		return model.BatchNone, true
	}
	return "", false
}
