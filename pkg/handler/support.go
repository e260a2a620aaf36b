package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honorwa/honor-wallet/models"
)

func (h *Handler) SubmitKYC(c *gin.Context) {
	var req models.KYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.KYC.Submit(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *Handler) GetMyTickets(c *gin.Context) {
	tickets, err := h.service.Support.Mine(c.Request.Context(), session(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": tickets,
	})
}

func (h *Handler) OpenTicket(c *gin.Context) {
	var req models.TicketInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.service.Support.Open(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": ticket})
}

type askInput struct {
	Query string `json:"query" binding:"required"`
}

func (h *Handler) Ask(c *gin.Context) {
	var req askInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	answer, err := h.service.Advisor.Ask(c.Request.Context(), session(c), req.Query)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"answer": answer,
	})
}

func (h *Handler) Market(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"analysis": h.service.Advisor.Market(c.Request.Context()),
	})
}
