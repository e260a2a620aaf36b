package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honorwa/honor-wallet/models"
)

func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.service.Authorization.Register(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.service.Authorization.Login(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoginFederated trusts the identity the front end obtained from its
// identity provider.
func (h *Handler) LoginFederated(c *gin.Context) {
	var input models.Identity
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.service.Authorization.LoginFederated(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	h.service.Authorization.Logout(session(c).ID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Authorization.Me(c.Request.Context(), session(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"user": user,
	})
}
