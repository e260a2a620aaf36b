package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/honorwa/honor-wallet/pkg/middleware"
	"github.com/honorwa/honor-wallet/pkg/service"
	"github.com/honorwa/honor-wallet/pkg/stream"
)

type Handler struct {
	service *service.Service
	hub     *stream.Hub
	origins []string
}

func NewHandler(service *service.Service, hub *stream.Hub, origins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		origins: origins,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	router.Use(cors.New(h.corsConfig()))

	authRequired := middleware.AuthMiddleware(h.service.Authorization)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/federated", h.LoginFederated)
		auth.POST("/logout", authRequired, h.Logout)
		auth.GET("/me", authRequired, h.GetMe)
	}

	api := router.Group("/api")
	{
		prices := api.Group("/prices")
		{
			prices.GET("", h.GetPrices)
			prices.GET("/stream", h.StreamPrices)
		}

		wallet := api.Group("/wallet", authRequired)
		{
			wallet.GET("/holdings", h.GetHoldings)
			wallet.GET("/transactions", h.GetTransactions)
			wallet.POST("/enable", h.EnableHolding)
			wallet.POST("/send", h.Send)
			wallet.POST("/convert", h.Convert)
			wallet.POST("/convert/quote", h.QuoteConvert)
			wallet.POST("/buy", h.Buy)
			wallet.POST("/buy/quote", h.QuoteBuy)
		}

		api.POST("/kyc", authRequired, h.SubmitKYC)

		support := api.Group("/support", authRequired)
		{
			support.GET("/tickets", h.GetMyTickets)
			support.POST("/tickets", h.OpenTicket)
		}

		p2p := api.Group("/p2p", authRequired)
		{
			p2p.GET("/offers", h.GetOffers)
			p2p.POST("/offers/:id/accept", h.AcceptOffer)
		}

		advisor := api.Group("/advisor", authRequired)
		{
			advisor.POST("/ask", h.Ask)
			advisor.GET("/market", h.Market)
		}

		admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
		{
			admin.GET("/users", h.ListUsers)
			admin.PATCH("/users/:id", h.UpdateUser)
			admin.GET("/users/:id/ledger", h.UserLedger)
			admin.POST("/balances", h.AdjustBalance)
			admin.GET("/kyc", h.ListKYC)
			admin.POST("/kyc/:id/approve", h.ApproveKYC)
			admin.POST("/kyc/:id/reject", h.RejectKYC)
			admin.GET("/tickets", h.ListTickets)
			admin.PATCH("/tickets/:id", h.UpdateTicket)
			admin.GET("/tickets/:id/suggestion", h.SuggestReply)
		}
	}
	return router
}

// corsConfig allows every origin when the list is empty or holds "*".
func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}
	for _, o := range h.origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(h.origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = h.origins
	cfg.AllowCredentials = true
	return cfg
}
