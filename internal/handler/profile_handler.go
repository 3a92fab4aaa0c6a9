package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"HugHub/internal/service"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

type UpdateProfileReq struct {
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Location   string `json:"location"`
	AgreeTerms bool   `json:"agreeTerms"`
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), c.Param("userId"), service.ProfileInput{
		Name:       req.Name,
		Gender:     req.Gender,
		Location:   req.Location,
		AgreeTerms: req.AgreeTerms,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
