// Package advisor provides AI-assisted feedback on journal entries.
//
// Every call is best effort: a failure is reported to the caller but
// must never block journaling itself.
package advisor

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"swing-journal/internal/analytics"
	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/models"
)

// Advisor wraps an OpenAI client for journal review tasks.
type Advisor struct {
	client *openai.Client
	model  string
}

// New creates an advisor using the given API key and model.
func New(apiKey, model string) *Advisor {
	return &Advisor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// TradeFeedback reviews a single trade in the context of the trader's
// overall statistics.
func (a *Advisor) TradeFeedback(ctx context.Context, trade models.Trade, stats analytics.Stats) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Review this swing trade and give concise, actionable feedback.\n\n")
	fmt.Fprintf(&sb, "Ticker: %s\nEntry: %s at %.2f for %.2f shares\nStrategy: %s\nMindset: %s\n",
		trade.Ticker, trade.EntryDate.Format("2006-01-02"), trade.EntryPrice, trade.Shares,
		trade.Strategy, trade.Mindset)
	if trade.StopLoss != nil {
		fmt.Fprintf(&sb, "Stop loss: %.2f\n", *trade.StopLoss)
	}
	if trade.TakeProfit != nil {
		fmt.Fprintf(&sb, "Take profit: %.2f\n", *trade.TakeProfit)
	}
	if trade.Status == models.StatusClosed && trade.ExitDate != nil && trade.ExitPrice != nil && trade.PnL != nil {
		fmt.Fprintf(&sb, "Exit: %s at %.2f, P/L %.2f\n",
			trade.ExitDate.Format("2006-01-02"), *trade.ExitPrice, *trade.PnL)
	}
	if trade.Notes != "" {
		fmt.Fprintf(&sb, "Journal notes: %s\n", trade.Notes)
	}
	fmt.Fprintf(&sb, "\nTrader record: %d closed trades, win rate %.1f%%, net P/L %.2f, expectancy %.2f per trade.\n",
		stats.Closed, stats.WinRate, stats.NetPnL, stats.Expectancy)

	return a.complete(ctx, "feedback",
		"You are a trading coach reviewing a retail swing trader's journal. Focus on process, risk, and discipline, not market predictions.",
		sb.String())
}

// ChartRead describes a chart screenshot attached to a trade.
func (a *Advisor) ChartRead(ctx context.Context, ticker string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", apperrors.NewAdvisorError("chart", fmt.Errorf("no chart image attached"))
	}

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: fmt.Sprintf("Describe the technical setup visible in this %s chart: trend, key levels, and anything a swing trader should note.", ticker),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	})
	if err != nil {
		return "", apperrors.NewAdvisorError("chart", fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err))
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewAdvisorError("chart", fmt.Errorf("no response from model"))
	}
	return resp.Choices[0].Message.Content, nil
}

// NewsBrief summarizes what a trader holding the given tickers should
// be watching.
func (a *Advisor) NewsBrief(ctx context.Context, tickers []string) (string, error) {
	if len(tickers) == 0 {
		return "", apperrors.NewAdvisorError("news", fmt.Errorf("no tickers to brief on"))
	}

	prompt := fmt.Sprintf(
		"I hold swing positions in: %s. Summarize the kinds of catalysts and risks a swing trader should monitor for these names this week. Be concise.",
		strings.Join(tickers, ", "))

	return a.complete(ctx, "news",
		"You are a markets assistant. You do not have live data; frame your answer as what to watch for, not current prices.",
		prompt)
}

func (a *Advisor) complete(ctx context.Context, operation, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", apperrors.NewAdvisorError(operation, fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err))
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewAdvisorError(operation, fmt.Errorf("no response from model"))
	}
	return resp.Choices[0].Message.Content, nil
}
