package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honorwa/honor-wallet/models"
)

type fakeGen struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestAdviseWithoutModel(t *testing.T) {
	a := New(nil)
	assert.Equal(t, FallbackAdvice, a.Advise(context.Background(), "should I buy?", nil))
	assert.Equal(t, FallbackTicket, a.SuggestTicketReply(context.Background(), models.SupportTicket{}))
}

func TestAdviseIncludesPortfolio(t *testing.T) {
	gen := &fakeGen{reply: "Hold."}
	a := New(gen)

	got := a.Advise(context.Background(), "should I buy?", []models.Holding{{Name: "Bitcoin", Symbol: "BTC", Balance: 0.5, Value: 32115.25}})

	assert.Equal(t, "Hold.", got)
	assert.Contains(t, gen.prompt, "should I buy?")
	assert.Contains(t, gen.prompt, "Bitcoin (BTC): balance 0.5, value $32115.25")
}

func TestModelFailureFallsBack(t *testing.T) {
	a := New(&fakeGen{err: errors.New("quota exceeded")})
	ctx := context.Background()

	assert.Equal(t, unavailableAdvice, a.Advise(ctx, "q", nil))
	assert.Equal(t, unavailableAnalysis, a.AnalyzeMarket(ctx, map[string]float64{"BTC": 1}))
	assert.Equal(t, unavailableTicket, a.SuggestTicketReply(ctx, models.SupportTicket{Message: "help"}))
}

func TestEmptyReplyFallsBack(t *testing.T) {
	a := New(&fakeGen{reply: "  "})
	assert.Equal(t, unavailableTicket, a.SuggestTicketReply(context.Background(), models.SupportTicket{Message: "help"}))
}
