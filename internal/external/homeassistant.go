package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"djp.chapter42.de/printerbridge/internal/cache"
	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/logger"
	"djp.chapter42.de/printerbridge/internal/tmpl"
	"go.uber.org/zap"
)

const userAgent = "printerbridge/1.0"

// Client talks to the Home Assistant REST API.
type Client struct {
	cfg        *data.HomeAssistantConfig
	httpClient *http.Client
	cache      cache.StateCache
}

func NewClient(cfg *data.HomeAssistantConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// WithStateCache makes State consult and fill the cache.
func (c *Client) WithStateCache(sc cache.StateCache) *Client {
	c.cache = sc
	return c
}

// CallService posts serviceData to the service endpoint. Any non-2xx answer is an error.
func (c *Client) CallService(ctx context.Context, domain, service string, serviceData map[string]interface{}) error {
	endpoint, err := c.urlBuilder(c.cfg.ParsedCallServiceTpl, tmpl.EndpointParams{Domain: domain, Service: service})
	if err != nil {
		return err
	}

	if serviceData == nil {
		serviceData = map[string]interface{}{}
	}
	payload, err := json.Marshal(serviceData)
	if err != nil {
		return fmt.Errorf("error while serializing service data: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Warn("Error while calling the service api:", zap.String("service", service), zap.Error(err))
		return fmt.Errorf("error while calling %s.%s: %w", domain, service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	logger.Log.Error("Service call rejected:", zap.String("service", service), zap.String("status", resp.Status), zap.String("body", string(bodyBytes)))
	return fmt.Errorf("service %s.%s rejected, Status: %s, Body: %s", domain, service, resp.Status, strings.TrimSpace(string(bodyBytes)))
}

// State fetches the current state of an entity. ok is false when Home Assistant does not know it.
func (c *Client) State(ctx context.Context, entityID string) (data.EntityState, bool, error) {
	var state data.EntityState

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, entityID)
		if err != nil {
			logger.Log.Warn("State cache read failed:", zap.String("entity", entityID), zap.Error(err))
		} else if ok {
			return cached, true, nil
		}
	}

	endpoint, err := c.urlBuilder(c.cfg.ParsedStateTpl, tmpl.EndpointParams{Entity: entityID})
	if err != nil {
		return state, false, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return state, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return state, false, fmt.Errorf("error while reading state of %s: %w", entityID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			return state, false, fmt.Errorf("error while decoding state of %s: %w", entityID, err)
		}
	case resp.StatusCode == http.StatusNotFound:
		logger.Log.Debug("Entity not found:", zap.String("entity", entityID))
		return state, false, nil
	default:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return state, false, fmt.Errorf("state api answered %s, Body: %s", resp.Status, strings.TrimSpace(string(bodyBytes)))
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, state); err != nil {
			logger.Log.Warn("State cache write failed:", zap.String("entity", entityID), zap.Error(err))
		}
	}
	return state, true, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		logger.Log.Warn("Error while generating request:", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.cfg.AuthProvider != nil {
		authHeader, err := c.cfg.AuthProvider.GetAuthHeader()
		if err != nil {
			logger.Log.Warn("Error while generating AuthHeaders:", zap.Error(err))
			return nil, err
		}
		req.Header.Set("Authorization", authHeader)
	}
	return req, nil
}

func (c *Client) urlBuilder(tpl *template.Template, params tmpl.EndpointParams) (string, error) {
	baseURL := strings.TrimRight(c.cfg.BaseURL, "/")
	if baseURL == "" {
		return "", fmt.Errorf("home_assistant.base_url is not configured")
	}

	endpoint, err := tmpl.RenderEndpoint(tpl, params)
	if err != nil {
		logger.Log.Warn("Error while rendering the endpoint:", zap.Error(err))
		return "", err
	}

	return baseURL + endpoint, nil
}
