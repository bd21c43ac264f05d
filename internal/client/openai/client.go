package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the chat-completions endpoint parameters.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls an OpenAI-compatible chat completions API. There is no schema
// guarantee on generated content beyond best-effort prompting; callers must
// tolerate arbitrary text.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// quizFormatInstructions pins the strict output format the quiz parser
// expects: numbered questions, lettered options or bare Vrai/Faux lines, and
// one answer line per question.
const quizFormatInstructions = `

FORMAT STRICT REQUIS:
Génère un mélange de questions QCM et Vrai/Faux. Pour chaque question, utilise EXACTEMENT ce format:

POUR LES QUESTIONS QCM:
1. [Texte de la question uniquement, sans options ni réponses]

A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]

Réponse correcte: [A/B/C/D]

POUR LES QUESTIONS VRAI/FAUX:
2. [Texte de la question uniquement, sans options ni réponses]

Vrai
Faux

Réponse correcte: [Vrai/Faux]

IMPORTANT:
- Mélange environ 60% de QCM et 40% de Vrai/Faux
- Ne mélange JAMAIS la question avec les options ou la réponse
- Chaque question doit être sur une ligne séparée
- La réponse correcte doit être sur une ligne séparée
- Pas d'explications dans le texte de la question
- Pour Vrai/Faux, utilise simplement "Vrai" et "Faux" comme options`

// GenerateQuiz asks the model for quiz questions over the course text and
// returns the raw generated block for the parser.
func (c *Client) GenerateQuiz(ctx context.Context, courseText string, numQuestions int, difficulty, language string) (string, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}
	if language == "" {
		language = "french"
	}

	system := fmt.Sprintf(
		"Tu es un assistant IA spécialisé dans la création de quiz éducatifs. Crée des questions de niveau %s avec des réponses claires.",
		difficulty,
	) + quizFormatInstructions
	user := fmt.Sprintf(
		"Crée %d questions de niveau %s en %s basées sur ce texte:\n\n%s",
		numQuestions, difficulty, language, truncate(courseText, 20000),
	)

	return c.chatCompletion(ctx, system, user)
}

// GenerateSummary asks the model for a structured course summary.
func (c *Client) GenerateSummary(ctx context.Context, courseText, level, language string) (string, error) {
	if level == "" {
		level = "intermediate"
	}
	if language == "" {
		language = "french"
	}

	system := fmt.Sprintf(
		"Tu es un assistant IA spécialisé dans la création de résumés éducatifs. Crée des résumés clairs, structurés et adaptés au niveau %s.",
		level,
	)
	user := fmt.Sprintf(
		"Résume ce texte de manière %s en %s:\n\n%s",
		level, language, truncate(courseText, 16000),
	)

	return c.chatCompletion(ctx, system, user)
}

// ChatWithCourse answers a free-form question grounded in the course text.
func (c *Client) ChatWithCourse(ctx context.Context, courseText, question, language string) (string, error) {
	if language == "" {
		language = "french"
	}

	system := "Tu es un assistant IA éducatif. Réponds aux questions des étudiants en te basant sur le contenu du cours fourni. Sois précis et pédagogique."
	user := fmt.Sprintf(
		"Contexte du cours:\n%s\n\nQuestion: %s",
		truncate(courseText, 18000), question,
	)

	return c.chatCompletion(ctx, system, user)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

func (c *Client) chatCompletion(ctx context.Context, system, user string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("openai api key is not configured")
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("chat completion failed: status %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	content := parsed.Choices[0].Message.Content
	if content == "" {
		content = parsed.Choices[0].Text
	}
	return strings.TrimSpace(content), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
