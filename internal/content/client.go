// Package content реализует клиент контент-хранилища (headless CMS в духе
// Storyblok), из которого читаются программы тренировок. Для сервиса доступа
// контент доступен только на чтение; клиент передаётся коллаборатором,
// глобального хэндла нет.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	"github.com/magabrotheeeer/coach-platform/internal/models"
)

// ErrNotFound история с указанным slug отсутствует в контент-хранилище.
var ErrNotFound = errors.New("story not found")

// Client клиент CDN API контент-хранилища.
type Client struct {
	baseURL      string
	token        string
	version      string
	programsPath string
	httpClient   *http.Client
}

// NewClient создаёт клиент по настройкам из конфига.
func NewClient(cfg config.Content) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		token:        cfg.Token,
		version:      cfg.Version,
		programsPath: cfg.ProgramsPath,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// storyResponse формат ответа CDN API.
type storyResponse struct {
	Story struct {
		Slug    string `json:"slug"`
		Content struct {
			Title     string          `json:"title"`
			Subtitle  string          `json:"subtitle"`
			Price     json.Number     `json:"price"`
			TrialDays int             `json:"trial_days"`
			Workouts  []json.RawMessage `json:"workouts"`
		} `json:"content"`
	} `json:"story"`
}

// GetProgram возвращает программу по slug. Возвращает ErrNotFound,
// если история не опубликована или slug не существует.
func (c *Client) GetProgram(ctx context.Context, slug string) (*models.Program, error) {
	const op = "content.GetProgram"

	u := fmt.Sprintf("%s/cdn/stories/%s/%s?version=%s&token=%s",
		c.baseURL, c.programsPath, url.PathEscape(slug),
		url.QueryEscape(c.version), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var sr storyResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	price, _ := sr.Story.Content.Price.Float64()
	program := &models.Program{
		Slug:         sr.Story.Slug,
		Title:        sr.Story.Content.Title,
		Subtitle:     sr.Story.Content.Subtitle,
		Price:        price,
		TrialDays:    sr.Story.Content.TrialDays,
		WorkoutCount: len(sr.Story.Content.Workouts),
	}
	if program.Slug == "" {
		program.Slug = slug
	}
	return program, nil
}

// Ping проверяет доступность контент-хранилища на старте приложения.
func (c *Client) Ping(ctx context.Context) error {
	const op = "content.Ping"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u := fmt.Sprintf("%s/cdn/spaces/me?token=%s", c.baseURL, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}
