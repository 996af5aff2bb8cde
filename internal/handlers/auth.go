package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/errors"
	"github.com/charlesng35/facultysite/pkg/response"
)

// AuthHandler exposes registration, email verification, password recovery
// and dashboard session endpoints.
type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type loginResponse struct {
	tokenResponse
	User *models.User `json:"user"`
}

const resetRequestedMessage = "If the email exists, a password reset link has been sent."

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.Register(requestContext(c), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if stderrors.Is(err, services.ErrVerificationEmailFailed) {
		response.Error(c, errors.Wrap(err, "Registration successful but failed to send verification email. Please contact support."))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, registerResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
		UserID:  user.ID,
	})
}

// POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.VerifyEmail(requestContext(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Email verified successfully"})
}

// POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ResendVerification(requestContext(c), req.Email); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{
		Message: "If the account exists and is not yet verified, a new verification link has been sent.",
	})
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(requestContext(c), req.Email); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: resetRequestedMessage})
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ResetPassword(requestContext(c), req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Password reset successfully"})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.accounts.Login(requestContext(c), req.Email, req.Password, iauth.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loginResponse{
		tokenResponse: newTokenResponse(result.Tokens),
		User:          result.User,
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.RefreshToken == "" {
		response.Error(c, errors.NewValidation("Refresh token is required"))
		return
	}

	pair, err := h.accounts.Refresh(requestContext(c), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, newTokenResponse(pair))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := currentSessionID(c)
	if sessionID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.accounts.Logout(requestContext(c), sessionID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Logged out successfully"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.Me(requestContext(c), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func newTokenResponse(pair iauth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
}
