// Package estimation wraps the OpenAI chat-completion call that turns a
// free-text food description into calorie/macro numbers.
package estimation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/serz/food-daily-bot/internal/config"
	"github.com/serz/food-daily-bot/internal/models"
)

// Модель обязана вернуть ровно такой JSON-объект и ничего больше.
const systemPrompt = `Ты - помощник по подсчету пищевой ценности. Оцени калорийность и содержание белков, жиров и углеводов для стандартной порции указанного блюда. Предоставь результат строго в формате JSON без дополнительных пояснений. Пример: {"calories": 450, "protein": 30, "fat": 15, "carbs": 45}`

type nutritionPayload struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg config.OpenAIConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: cfg.Model,
	}
}

// Estimate выполняет один запрос без повторов. Любая ошибка транспорта,
// пустой ответ или некорректный JSON означают "оценка недоступна":
// вызывающий код сообщает об этом пользователю и не падает.
func (c *Client) Estimate(ctx context.Context, description string) (*models.FoodEntry, error) {
	log.Printf("[OpenAI] Analyzing food: %q", description)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty completion response")
	}
	content := resp.Choices[0].Message.Content
	log.Printf("[OpenAI] Received raw response: %s", content)

	var payload nutritionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse nutrition JSON: %w", err)
	}

	return &models.FoodEntry{
		Description: description,
		Calories:    payload.Calories,
		Protein:     payload.Protein,
		Fat:         payload.Fat,
		Carbs:       payload.Carbs,
		Timestamp:   time.Now().UnixMilli(),
	}, nil
}
