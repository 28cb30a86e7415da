package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
	"github.com/tb0023/biz_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 注册公司
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Created(c, resp)
}

// VerifyOTP 校验邮箱验证码
// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.authService.VerifyOTP(req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrInvalidOTP), errors.Is(err, service.ErrOTPExpired):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OKMessage(c, "邮箱验证成功")
}

// Login 邮箱密码登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, service.ErrEmailNotVerified):
			response.Fail(c, http.StatusForbidden, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OK(c, resp)
}

// GoogleAuth 跳转 Google 授权页
// GET /api/auth/google?redirect_uri=
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")
	if redirectURI == "" {
		response.BadRequest(c, "缺少 redirect_uri 参数")
		return
	}

	authURL, err := h.authService.GoogleAuthURL(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback Google 授权回调，携带 token 跳回前端
// GET /api/auth/google/callback?state=&code=
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.BadRequest(c, "缺少 state 或 code 参数")
		return
	}

	resp, redirectURI, err := h.authService.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		response.Unauthorized(c, "Google 授权失败")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s#token=%s", redirectURI, resp.Token))
}
