package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalm342/ShelfSense/cmd/api/dto"
	"github.com/vishalm342/ShelfSense/cmd/api/middleware"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
)

// RegisterHandler godoc
// @Summary      Register a new account
// @Description  Create a user account and return an access token
// @Tags         auth
// @Accept       json
// @Param        request  body  dto.RegisterRequestDTO  true  "Signup payload"
// @Produce      json
// @Success      201  {object}  dto.AuthResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /auth/register [post]
func RegisterHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.RegisterRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		resp, err := authSvc.Register(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				c.JSON(http.StatusConflict, dto.ErrorResponseDTO{Error: "email_already_registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_register"})
			return
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// LoginHandler godoc
// @Summary      Log in
// @Description  Verify credentials and return an access token
// @Tags         auth
// @Accept       json
// @Param        request  body  dto.LoginRequestDTO  true  "Login payload"
// @Produce      json
// @Success      200  {object}  dto.AuthResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /auth/login [post]
func LoginHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.LoginRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		resp, err := authSvc.Login(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: "invalid_credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_login"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// MeHandler godoc
// @Summary      Current user profile
// @Description  Return the profile of the authenticated user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.UserDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /auth/me [get]
func MeHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		profile, err := authSvc.GetUserProfile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "user_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_load_profile"})
			return
		}

		c.JSON(http.StatusOK, profile)
	}
}
