package portfolio

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-dummy-password"), bcrypt.DefaultCost)

type checkResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// login verifies the credentials for the client's IP and starts the admin
// session on success. The returned status is 200, 401 or 429; err is set
// only for storage or session failures.
func (a *App) login(c echo.Context, username, password string) (int, error) {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return http.StatusTooManyRequests, nil
	}
	ok, err := a.verifyCredentials(c.Request().Context(), username, password)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if !ok {
		a.loginLimiter.Record(ip)
		return http.StatusUnauthorized, nil
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c, username); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (a *App) handleLogin(c echo.Context) error {
	var in loginInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, "Invalid login data", err)
	}
	if errs := check(in); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid login data", Errors: errs})
	}

	status, err := a.login(c, in.Username, in.Password)
	switch status {
	case http.StatusOK:
		return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Login successful"})
	case http.StatusTooManyRequests:
		return c.JSON(status, successResponse{Message: "Too many login attempts. Try again later."})
	case http.StatusUnauthorized:
		return c.JSON(status, successResponse{Message: "Invalid credentials"})
	default:
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, successResponse{Message: "Login failed"})
	}
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return jsonSuccess(c, "Logged out successfully")
}

func (a *App) handleCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, checkResponse{IsAuthenticated: IsAdmin(c)})
}

// verifyCredentials reports whether password matches the stored hash for username.
func (a *App) verifyCredentials(ctx context.Context, username, password string) (bool, error) {
	cred, err := a.Store.GetAdminByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil, nil
}

// seedAdmin creates the configured admin credential when none is stored yet.
func (a *App) seedAdmin(ctx context.Context) error {
	n, err := a.Store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("no admin credential stored and AdminPassword is empty")
	}
	hash, err := HashPassword(a.Config.AdminPassword)
	if err != nil {
		return err
	}
	if _, err := a.Store.CreateAdmin(ctx, a.Config.AdminUsername, hash); err != nil {
		return err
	}
	a.Echo.Logger.Infof("created admin user %q", a.Config.AdminUsername)
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SetAdminPassword creates the credential for username or replaces its password.
func SetAdminPassword(ctx context.Context, store AdminStore, username, password string) (created bool, err error) {
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	err = store.SetAdminPassword(ctx, username, hash)
	if errors.Is(err, ErrNotFound) {
		if _, err := store.CreateAdmin(ctx, username, hash); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, err
}
