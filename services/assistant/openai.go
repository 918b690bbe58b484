package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"transylvania/models"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// FallbackSentence is the one fixed, non-technical reply used whenever the
// remote model is unreachable, empty, or unsure. It must be returned
// verbatim; raw transport errors never reach the transcript.
const FallbackSentence = "AI can't solve that, please contact our key personnel."

const systemPrompt = `You are BookSmart's hotel assistant for the Hotel Transylvania app. Your name is Drac.
Capabilities:
- Explain app pages: Landing, Login/Signup, Dashboard with the rooms grid and availability.
- Describe the booking flow: pick a room, select a check-in date and days (1-5), then confirm. Holders can cancel their own bookings.
Constraints:
- If the user asks about topics outside this app or you are not confident you can answer correctly, respond exactly with: "` + FallbackSentence + `"`

// ModelClient sends an ordered message list to the remote language model.
type ModelClient interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// OpenAIClient implements ModelClient against the OpenAI chat completion API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIClient creates a rate-limited OpenAI chat client.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(3), 5),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// NormalizeModelReply converts empty or uncertainty-marked model output into
// the fixed fallback sentence.
func NormalizeModelReply(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return FallbackSentence
	}
	lc := strings.ToLower(reply)
	if strings.Contains(lc, "don't know") || strings.Contains(lc, "not sure") || strings.Contains(lc, "can't answer") {
		return FallbackSentence
	}
	return reply
}
