package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/config"
	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает клиент справочника административного деления IBGE
func NewClient(cfg *config.IBGEConfig, logger *zap.Logger) repository.LocalityRepository {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// GetStates возвращает список штатов, отсортированный по коду
func (c *client) GetStates(ctx context.Context) ([]domain.State, error) {
	var states []domain.State
	if err := c.get(ctx, "/estados", &states); err != nil {
		return nil, err
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })
	return states, nil
}

// GetCities возвращает муниципалитеты штата, отсортированные по имени
func (c *client) GetCities(ctx context.Context, stateCode string) ([]domain.City, error) {
	path := fmt.Sprintf("/estados/%s/municipios", url.PathEscape(stateCode))

	var cities []domain.City
	if err := c.get(ctx, path, &cities); err != nil {
		return nil, err
	}

	sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	return cities, nil
}

func (c *client) get(ctx context.Context, path string, out interface{}) error {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("IBGE request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("IBGE API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("ibge api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("IBGE request completed",
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
