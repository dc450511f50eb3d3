package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

const systemPrompt = `You are an intent detection system for an auto dealership.
Analyze the customer's message and return ONLY a JSON object with the fields:
  "intent": one of test_drive_booking, information_request, confirmation, cancellation, general_inquiry
  "vehicle_type": SUV, SEDAN, TRUCK, COUPE, HATCHBACK or empty
  "model": exact model name if mentioned, else empty
  "date": YYYY-MM-DD, "today", "tomorrow" or empty
  "time": time as said by the customer (e.g. "2pm", "14:30") or empty
  "customer_name": name if mentioned, else empty
  "customer_phone": phone number if mentioned, else empty`

// Generator текстовая генерация внешней модели
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// LLM классификатор на внешней языковой модели.
// Ответ проверяется по строгой схеме, иначе ErrMalformed.
type LLM struct {
	gen Generator
}

func NewLLM(gen Generator) *LLM {
	return &LLM{gen: gen}
}

func (c *LLM) Classify(ctx context.Context, utterance string) (model.Intent, error) {
	prompt := systemPrompt + "\n\nCustomer message: " + utterance

	raw, err := c.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return model.Intent{}, fmt.Errorf("classify: %w", err)
	}

	return parseIntent(raw)
}

// parseIntent разбирает JSON ответ модели, допускает обёртку в ```json блок
func parseIntent(raw string) (model.Intent, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var result model.Intent
	if err := dec.Decode(&result); err != nil {
		return model.Intent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	result.Kind = model.IntentKind(strings.ToLower(strings.TrimSpace(string(result.Kind))))
	if !result.Kind.Valid() {
		return model.Intent{}, fmt.Errorf("%w: unknown intent %q", ErrMalformed, result.Kind)
	}
	result.VehicleType = strings.ToUpper(strings.TrimSpace(result.VehicleType))

	return result, nil
}
