package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/assistant"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/notify"
	"github.com/honorwa/honor-wallet/pkg/pricing"
	"github.com/honorwa/honor-wallet/pkg/repository"
	"github.com/honorwa/honor-wallet/pkg/service"
	"github.com/honorwa/honor-wallet/pkg/stream"
)

type APISuite struct {
	suite.Suite
	router     *gin.Engine
	adminToken string
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	hub := stream.NewHub([]string{"*"})
	engine := service.NewService(repository.NewRepository(repository.NewMemoryStore()), service.Deps{
		Source:    pricing.Static{},
		Prices:    cache.NewPriceCache(pricing.SeedPrices()),
		Sessions:  cache.NewSessionCache(time.Hour, time.Minute),
		Publisher: hub,
		Notifier:  notify.NewNotifier(notify.LogSender{}, "info@honor-wallet.com"),
		Advisor:   assistant.New(nil),
		Fees:      service.DefaultFeeSchedule(),
		Auth: service.AuthConfig{
			Secret:     "test-secret",
			SessionTTL: time.Hour,
			BcryptCost: bcrypt.MinCost,
			Admins: []service.AdminSeed{
				{Email: "admin@honor-wallet.com", FullName: "Admin", Password: "adminpass", Role: models.RoleSuperAdmin},
			},
		},
	})
	s.Require().NoError(engine.AuthService.SeedAdmins(context.Background()))

	s.router = NewHandler(engine.Service, hub, []string{"*"}).InitRoute()

	var login models.AuthResponse
	w := s.call(http.MethodPost, "/auth/login", "", models.LoginInput{Email: "admin@honor-wallet.com", Password: "adminpass"}, &login)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.adminToken = login.Token
}

func (s *APISuite) call(method, path, token string, body, out interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

// register creates a user and activates it through the admin API.
func (s *APISuite) register(email string, activate bool) (string, string) {
	var reg models.AuthResponse
	w := s.call(http.MethodPost, "/auth/register", "", models.RegisterInput{FullName: "Test", Email: email, Password: "password123"}, &reg)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	if activate {
		w = s.call(http.MethodPatch, "/api/admin/users/"+reg.User.ID, s.adminToken, gin.H{"status": "active"}, nil)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}
	return reg.Token, reg.User.ID
}

func (s *APISuite) TestOnHoldUserIsForbidden() {
	token, _ := s.register("hold@example.com", false)
	w := s.call(http.MethodPost, "/api/wallet/enable", token, models.EnableInput{Asset: "BTC"}, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.call(http.MethodGet, "/api/admin/users", token, nil, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APISuite) TestWalletFlow() {
	token, userID := s.register("flow@example.com", true)

	w := s.call(http.MethodPost, "/api/admin/balances", s.adminToken, models.AdjustInput{UserID: userID, Asset: "BTC", Balance: 1}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var holdings struct {
		Data  []models.Holding `json:"data"`
		Total float64          `json:"total"`
	}
	w = s.call(http.MethodGet, "/api/wallet/holdings", token, nil, &holdings)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Len(holdings.Data, 1)
	s.Equal(64230.50, holdings.Total)

	var converted struct {
		Data models.ConvertResult `json:"data"`
	}
	w = s.call(http.MethodPost, "/api/wallet/convert", token, models.ConvertRequest{From: "BTC", To: "ETH", Amount: 0.1}, &converted)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.InDelta(1.8524, converted.Data.NetOutput, 1e-3)

	w = s.call(http.MethodPost, "/api/wallet/convert", token, models.ConvertRequest{From: "BTC", To: "ETH", Amount: 5}, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.call(http.MethodPost, "/api/wallet/send", token, models.SendInput{Asset: "ETH", Amount: 1, ToAddress: "bad"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.call(http.MethodPost, "/api/wallet/send", token, models.SendInput{Asset: "ETH", Amount: 1, ToAddress: "0x52908400098527886E0F7030069857D2E4169EE7"}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var txs struct {
		Data []models.Transaction `json:"data"`
	}
	w = s.call(http.MethodGet, "/api/wallet/transactions", token, nil, &txs)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Len(txs.Data, 3)
	s.Equal(models.TxSend, txs.Data[0].Type)
	s.Equal(models.TxConvert, txs.Data[1].Type)
	s.Equal(models.TxAdminAdjustment, txs.Data[2].Type)
}

func (s *APISuite) TestBuyQuote() {
	token, _ := s.register("buy@example.com", true)
	var quote struct {
		Data models.BuyQuote `json:"data"`
	}
	w := s.call(http.MethodPost, "/api/wallet/buy/quote", token, models.BuyRequest{Asset: "ETH", Amount: 1, Method: models.PayWire}, &quote)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(3450.20, quote.Data.Total)

	w = s.call(http.MethodPost, "/api/wallet/buy", token, gin.H{"asset": "ETH", "amount": 1, "method": "cash"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestSupportAndKYC() {
	token, _ := s.register("help@example.com", false)

	w := s.call(http.MethodPost, "/api/support/tickets", token, models.TicketInput{Subject: "Hi", Message: "Need help"}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var kyc struct {
		Data models.KYCRequest `json:"data"`
	}
	w = s.call(http.MethodPost, "/api/kyc", token, models.KYCRequest{IDDocumentName: "id.png", ProofDocumentName: "bill.pdf"}, &kyc)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.call(http.MethodPost, "/api/admin/kyc/"+kyc.Data.ID+"/approve", s.adminToken, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var me struct {
		User models.User `json:"user"`
	}
	w = s.call(http.MethodGet, "/auth/me", token, nil, &me)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(me.User.Verified)
	s.Equal(models.KYCVerified, me.User.KYCStatus)

	var tickets struct {
		Data []models.SupportTicket `json:"data"`
	}
	w = s.call(http.MethodGet, "/api/admin/tickets", s.adminToken, nil, &tickets)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(tickets.Data, 1)
}

func (s *APISuite) TestLogoutEndsSession() {
	token, _ := s.register("bye@example.com", false)
	s.Equal(http.StatusNoContent, s.call(http.MethodPost, "/auth/logout", token, nil, nil).Code)
	s.Equal(http.StatusUnauthorized, s.call(http.MethodGet, "/auth/me", token, nil, nil).Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestPricesArePublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := stream.NewHub(nil)
	engine := service.NewService(repository.NewRepository(repository.NewMemoryStore()), service.Deps{
		Source:   pricing.Static{},
		Prices:   cache.NewPriceCache(pricing.SeedPrices()),
		Sessions: cache.NewSessionCache(time.Hour, time.Minute),
		Notifier: notify.NewNotifier(nil, ""),
		Advisor:  assistant.New(nil),
		Fees:     service.DefaultFeeSchedule(),
		Auth:     service.AuthConfig{Secret: "x"},
	})
	router := NewHandler(engine.Service, hub, []string{"*"}).InitRoute()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 64230.50, body.Data["BTC"])
}
