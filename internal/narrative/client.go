package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
)

// LLMClient asks a chat-completion endpoint for a verdict and falls back
// to the rule-based generator on any failure. Verdicts are cached per
// (player, market, line) so repeated scans of the same slate don't burn
// tokens.
type LLMClient struct {
	client   *http.Client
	cfg      config.NarrativeConfig
	fallback *RuleBased
	verdicts *cache.Cache
	logger   *logrus.Logger
}

// NewLLMClient creates the LLM-backed verdict generator
func NewLLMClient(cfg config.NarrativeConfig, logger *logrus.Logger) *LLMClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LLMClient{
		client:   &http.Client{Timeout: timeout},
		cfg:      cfg,
		fallback: NewRuleBased(),
		verdicts: cache.New(30*time.Minute, time.Hour),
		logger:   logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Verdict returns a verdict for the candidate, from cache, the LLM, or
// the rule-based fallback. It never returns an error on LLM failure.
func (c *LLMClient) Verdict(ctx context.Context, req Request) (string, error) {
	if req.Line <= 0 {
		return "", nil
	}
	if !c.cfg.Enabled || c.cfg.URL == "" {
		return c.fallback.Verdict(ctx, req)
	}

	key := fmt.Sprintf("%s|%s|%.1f", req.PlayerName, req.Market, req.Line)
	if cached, found := c.verdicts.Get(key); found {
		return cached.(string), nil
	}

	attempts := c.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var verdict string
	var err error
	for i := 0; i < attempts; i++ {
		verdict, err = c.complete(ctx, req)
		if err == nil {
			break
		}
	}
	if err != nil {
		c.logger.WithError(err).WithField("player", req.PlayerName).Warn("LLM verdict failed, using rule-based fallback")
		return c.fallback.Verdict(ctx, req)
	}

	c.verdicts.Set(key, verdict, cache.DefaultExpiration)
	return verdict, nil
}

func (c *LLMClient) complete(ctx context.Context, req Request) (string, error) {
	prompt := fmt.Sprintf(
		"Analyse ce pari NBA en 2 phrases maximum, en français. Joueur: %s. Marché: %s. Projection du modèle: %.1f. Ligne du bookmaker: %.1f. Taux de réussite historique contre la ligne: %.0f%%.",
		req.PlayerName, req.Market, req.Projection, req.Line, req.SuccessRate*100,
	)
	if req.DefenseNote != "" {
		prompt += " Contexte défensif: " + req.DefenseNote
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "Tu es un analyste de paris sportifs NBA, concis et factuel."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("verdict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verdict request failed with status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}

	return chatResp.Choices[0].Message.Content, nil
}
