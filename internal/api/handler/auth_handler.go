package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/api/middleware"
	"github.com/monochrome/portal/internal/core/domain"
)

// AuthHandler serves the login, registration, logout and profile pages. It
// works on the session facade bound to the request.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Login authenticates the browser's session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auth, err := ctxAuth(c)
	if err != nil {
		return err
	}
	profile, err := auth.Login(c.Request().Context(), middleware.Cookies(c), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: profile, Redirect: domain.DefaultDashboardPath})
}

// Register creates an account and logs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auth, err := ctxAuth(c)
	if err != nil {
		return err
	}
	profile, err := auth.Register(c.Request().Context(), middleware.Cookies(c), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: profile, Redirect: domain.DefaultDashboardPath})
}

// Logout clears the session and sends the browser home.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  redirectResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	auth, err := ctxAuth(c)
	if err != nil {
		return err
	}
	if err := auth.Logout(c.Request().Context(), middleware.Cookies(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirectResponse{Redirect: "/"})
}

// Session reports the current auth state without gating.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	auth, err := ctxAuth(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auth.Snapshot())
}

// Profile returns the logged-in user's profile.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	viewer, err := ctxViewer(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewer.Profile)
}

// UpdateProfile edits the name and contact of the logged-in user.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorResponse
// @Router       /profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	auth, err := ctxAuth(c)
	if err != nil {
		return err
	}
	profile, err := auth.UpdateProfile(c.Request().Context(), middleware.Cookies(c), req.Name, req.Contact)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
