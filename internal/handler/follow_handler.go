package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"HugHub/internal/service"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

type followReq struct {
	FolloweeID string `json:"followee_id" binding:"required"`
}

// Follow 关注接口，新建返回 201，重复关注返回 200
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	created, err := h.svc.Follow(c.Request.Context(), userIDFromCtx(c), req.FolloweeID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"msg": "already following"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "followed successfully"})
}

// Unfollow 取消关注
func (h *FollowHandler) Unfollow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.Unfollow(c.Request.Context(), userIDFromCtx(c), req.FolloweeID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "unfollowed successfully"})
}

// ListFollowing 获取关注的人
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	rows, err := h.svc.ListFollowing(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListFollowers 获取粉丝列表
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	rows, err := h.svc.ListFollowers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Relation 获取用户间关系
func (h *FollowHandler) Relation(c *gin.Context) {
	ok, err := h.svc.IsFollowing(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}
