package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-pos-inventory/internal/store"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// maxToolRounds bounds how many times the model may call back into the store
// before it has to answer.
const maxToolRounds = 5

var ErrTooManyToolCalls = errors.New("assistant exceeded the tool call limit")

// Agent answers operator questions with Gemini function calling.
type Agent struct {
	client *genai.Client
	model  string
	tools  *Toolbox
	log    *zap.Logger
}

func NewAgent(ctx context.Context, apiKey, model string, s store.Store, lowStockThreshold int, log *zap.Logger) (*Agent, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{client: client, model: model, tools: NewToolbox(s, lowStockThreshold), log: log}, nil
}

func (a *Agent) Close() error {
	return a.client.Close()
}

func systemPrompt(now time.Time) string {
	return fmt.Sprintf(`Today is %s. You are the assistant of a point-of-sale and inventory system.

RULES:
1. For PRICE, COST, STOCK or DETAILS of a product, call 'check_inventory' (with a query when the user names a product) and answer from the result.
2. For sales, revenue or profit, call 'get_sales_report' with the closest period.
3. To change a price by product NAME, look up its stock code with 'check_inventory' first, then call 'update_product_price'. Never ask the user for ids.
4. Amounts are decimal strings; quote them as given.`, now.Format("2006-01-02"))
}

// Ask runs one conversation turn, executing tool calls until the model
// replies with text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(store.Now())))
	model.Tools = toolDeclarations()

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	for round := 0; ; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp), nil
		}
		if round == maxToolRounds {
			return "", ErrTooManyToolCalls
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.Debug("Assistant tool call", zap.String("tool", call.Name), zap.Any("args", call.Args))
			parts = append(parts, a.tools.Run(ctx, call))
		}
		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", err
		}
	}
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "I completed the action."
	}
	return b.String()
}
