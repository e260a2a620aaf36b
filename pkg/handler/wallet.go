package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honorwa/honor-wallet/models"
)

func (h *Handler) GetHoldings(c *gin.Context) {
	holdings, err := h.service.Wallet.Holdings(c.Request.Context(), session(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	total := 0.0
	for _, hd := range holdings {
		total += hd.Value
	}
	wrapOkJSON(c, map[string]interface{}{
		"data":  holdings,
		"total": total,
	})
}

func (h *Handler) GetTransactions(c *gin.Context) {
	txs, err := h.service.Wallet.Transactions(c.Request.Context(), session(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": txs,
	})
}

func (h *Handler) EnableHolding(c *gin.Context) {
	var req models.EnableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	holding, err := h.service.Wallet.Enable(c.Request.Context(), session(c), req.Asset)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": holding,
	})
}

func (h *Handler) Send(c *gin.Context) {
	var req models.SendInput
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := h.service.Wallet.Send(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": tx,
	})
}

// Convert swaps one holding into another. Body: {amount, from, to}.
func (h *Handler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Wallet.Convert(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": res,
	})
}

func (h *Handler) QuoteConvert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Wallet.QuoteConvert(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": res,
	})
}

func (h *Handler) Buy(c *gin.Context) {
	var req models.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.Wallet.Buy(c.Request.Context(), session(c), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": res,
	})
}

func (h *Handler) QuoteBuy(c *gin.Context) {
	var req models.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	quote, err := h.service.Wallet.QuoteBuy(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": quote,
	})
}

func (h *Handler) GetOffers(c *gin.Context) {
	offers, err := h.service.Wallet.Offers(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": offers,
	})
}

func (h *Handler) AcceptOffer(c *gin.Context) {
	tx, err := h.service.Wallet.AcceptOffer(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": tx,
	})
}
