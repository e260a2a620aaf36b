package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honorwa/honor-wallet/models"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.Admin.Users(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": users,
	})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.Admin.UpdateUser(c.Request.Context(), session(c), c.Param("id"), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": user,
	})
}

func (h *Handler) UserLedger(c *gin.Context) {
	holdings, txs, err := h.service.Admin.UserLedger(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"holdings":     holdings,
		"transactions": txs,
	})
}

func (h *Handler) AdjustBalance(c *gin.Context) {
	var req models.AdjustInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	holding, err := h.service.Admin.AdjustBalance(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": holding,
	})
}

func (h *Handler) ListKYC(c *gin.Context) {
	reqs, err := h.service.KYC.List(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": reqs,
	})
}

func (h *Handler) ApproveKYC(c *gin.Context) {
	h.processKYC(c, true)
}

func (h *Handler) RejectKYC(c *gin.Context) {
	h.processKYC(c, false)
}

func (h *Handler) processKYC(c *gin.Context, approve bool) {
	req, err := h.service.KYC.Process(c.Request.Context(), c.Param("id"), approve)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": req,
	})
}

func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.service.Support.All(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": tickets,
	})
}

func (h *Handler) UpdateTicket(c *gin.Context) {
	var req models.TicketUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.service.Support.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": ticket,
	})
}

func (h *Handler) SuggestReply(c *gin.Context) {
	text, err := h.service.Support.SuggestReply(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"suggestion": text,
	})
}
