package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"HugHub/internal/service"
)

// EmailHandler 通过邮件链接完成的流程：激活账户、找回密码
type EmailHandler struct {
	svc *service.UserService
}

type EmailReq struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewEmailHandler(svc *service.UserService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// Verify 邮件中的激活链接
func (h *EmailHandler) Verify(c *gin.Context) {
	if err := h.svc.Verify(c.Request.Context(), c.Param("token")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "email verified, you can now log in"})
}

func (h *EmailHandler) ResendVerification(c *gin.Context) {
	var req EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "verification email sent"})
}

func (h *EmailHandler) ForgotPassword(c *gin.Context) {
	var req EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "password reset email sent"})
}

// ValidateResetToken 前端打开重置页面时先校验令牌
func (h *EmailHandler) ValidateResetToken(c *gin.Context) {
	if err := h.svc.ValidateResetToken(c.Request.Context(), c.Param("token")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *EmailHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "reset password successfully"})
}
