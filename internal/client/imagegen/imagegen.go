// Package imagegen generates book cover images through an OpenAI-compatible
// API in two steps: a chat completion turns the book details into an image
// prompt, then the image endpoint renders it and returns a URL.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/logging"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultPromptModel = "gpt-4o-mini"
	DefaultImageModel  = "dall-e-3"
)

const systemPrompt = "You are a professional book cover designer. Based on the book title, genre, " +
	"description, and user keywords, create a highly detailed image generation prompt. The prompt " +
	"should describe the visual elements, mood, lighting, and composition. Output ONLY the English prompt text."

var (
	ErrMissingAPIKey = errors.New("image generator API key is not set")
	ErrInvalidAPIKey = errors.New("image generator API key is invalid")
	ErrEmptyResult   = errors.New("image generator returned no result")
)

// Styles offered by the generator; "auto" leaves the choice to the model.
var Styles = []string{"auto", "minimalist", "fantasy", "vintage", "modern"}

type Request struct {
	Title       string
	Genre       string
	Description string
	Keywords    string
	Style       string
}

type Result struct {
	Prompt   string
	ImageURL string
}

type Config struct {
	BaseURL     string
	PromptModel string
	ImageModel  string
	Timeout     time.Duration
	// RPS bounds outgoing requests per second; zero means unlimited.
	RPS float64
}

type Client struct {
	http    *resty.Client
	cfg     Config
	limiter *rate.Limiter
	log     logging.Logger
}

func New(cfg Config, log logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PromptModel == "" {
		cfg.PromptModel = DefaultPromptModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if log == nil {
		log = logging.NewDiscard()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &Client{http: c, cfg: cfg, limiter: limiter, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate runs both steps and returns the prompt used and the image URL.
func (c *Client) Generate(ctx context.Context, apiKey string, req Request) (Result, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}

	prompt, err := c.prompt(ctx, apiKey, req)
	if err != nil {
		return Result{}, err
	}
	c.log.Debug(ctx, "cover prompt ready", "title", req.Title)

	url, err := c.image(ctx, apiKey, prompt)
	if err != nil {
		return Result{}, err
	}
	return Result{Prompt: prompt, ImageURL: url}, nil
}

func userPrompt(req Request) string {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = "No description provided"
	}
	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = "auto"
	}
	return fmt.Sprintf("Book Title: %s\nGenre: %s\nDescription: %s\nUser Keywords: %s\nPreferred Style: %s",
		req.Title, req.Genre, desc, strings.TrimSpace(req.Keywords), style)
}

func (c *Client) prompt(ctx context.Context, apiKey string, req Request) (string, error) {
	var out chatResponse
	body := chatRequest{
		Model: c.cfg.PromptModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
	}
	if err := c.post(ctx, apiKey, "/chat/completions", body, &out); err != nil {
		return "", fmt.Errorf("prompt generation failed: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResult
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) image(ctx context.Context, apiKey, prompt string) (string, error) {
	var out imageResponse
	body := imageRequest{Model: c.cfg.ImageModel, Prompt: prompt, N: 1, Size: "1024x1024", Quality: "standard"}
	if err := c.post(ctx, apiKey, "/images/generations", body, &out); err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", ErrEmptyResult
	}
	return out.Data[0].URL, nil
}

func (c *Client) post(ctx context.Context, apiKey, endpoint string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(body).
		SetResult(out).
		SetError(&apiErr).
		Post(endpoint)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case resp.IsError():
		if apiErr.Error.Message != "" {
			return errors.New(apiErr.Error.Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return nil
}
