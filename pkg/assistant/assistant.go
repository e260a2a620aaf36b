// Package assistant answers advisory questions through Gemini. Answers never
// touch the ledger, and every failure degrades to a canned reply.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/honorwa/honor-wallet/models"
)

const (
	FallbackAdvice   = "General advice: diversify your portfolio and only invest what you can afford to lose."
	FallbackAnalysis = "Analysis: the market shows mixed trends. Watch the key support levels."
	FallbackTicket   = "Thank you for your message. Our team will get back to you shortly."

	unavailableAdvice   = "Sorry, I cannot provide advice right now."
	unavailableAnalysis = "Analysis is not available right now."
	unavailableTicket   = "Our team will review your request and answer soon."
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Advisor struct {
	gen Generator
}

// New builds an Advisor. With a nil generator every call returns the
// canned fallback.
func New(gen Generator) *Advisor {
	return &Advisor{gen: gen}
}

// Advise answers a user question, giving the model the portfolio as context.
func (a *Advisor) Advise(ctx context.Context, query string, holdings []models.Holding) string {
	if a.gen == nil {
		return FallbackAdvice
	}
	var b strings.Builder
	b.WriteString("As a crypto financial advisor, answer this question: ")
	b.WriteString(query)
	if len(holdings) > 0 {
		b.WriteString("\n\nThe user's portfolio:\n")
		for _, h := range holdings {
			fmt.Fprintf(&b, "- %s (%s): balance %g, value $%.2f\n", h.Name, h.Symbol, h.Balance, h.Value)
		}
	}
	return a.ask(ctx, b.String(), unavailableAdvice)
}

// AnalyzeMarket comments on a price table.
func (a *Advisor) AnalyzeMarket(ctx context.Context, prices map[string]float64) string {
	if a.gen == nil {
		return FallbackAnalysis
	}
	data, _ := json.Marshal(prices)
	return a.ask(ctx, "Analyze this crypto market data and provide insights: "+string(data), unavailableAnalysis)
}

// SuggestTicketReply drafts an answer an admin may send for a ticket.
func (a *Advisor) SuggestTicketReply(ctx context.Context, t models.SupportTicket) string {
	if a.gen == nil {
		return FallbackTicket
	}
	return a.ask(ctx, "As customer support, reply to this ticket: "+t.Message, unavailableTicket)
}

func (a *Advisor) ask(ctx context.Context, prompt, fallback string) string {
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("assistant unavailable")
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from model %s", g.model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
