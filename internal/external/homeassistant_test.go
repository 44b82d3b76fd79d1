package external

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"djp.chapter42.de/printerbridge/internal/auth"
	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/tmpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, baseURL string) *data.HomeAssistantConfig {
	t.Helper()
	cfg := &data.HomeAssistantConfig{
		BaseURL:      baseURL,
		Domain:       "esphome",
		AuthProvider: &auth.BearerAuth{Token: "long-lived"},
	}
	require.NoError(t, tmpl.PrepareTemplates(cfg))
	return cfg
}

func TestCallService(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/services/esphome/kitchen_print_text", r.URL.Path)
		assert.Equal(t, "Bearer long-lived", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello", body["message"])
		assert.Equal(t, true, body["bold"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := NewClient(newTestConfig(t, ts.URL+"/"))
	err := c.CallService(context.Background(), "esphome", "kitchen_print_text", map[string]interface{}{"message": "Hello", "bold": true})
	assert.NoError(t, err)
}

func TestCallServiceWithoutData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewClient(newTestConfig(t, ts.URL))
	assert.NoError(t, c.CallService(context.Background(), "esphome", "kitchen_wake_printer", nil))
}

func TestCallServiceRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Service esphome.nope not found."))
	}))
	defer ts.Close()

	c := NewClient(newTestConfig(t, ts.URL))
	err := c.CallService(context.Background(), "esphome", "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status: 400 Bad Request")
	assert.Contains(t, err.Error(), "Body: Service esphome.nope not found.")
}

func TestCallServiceTransportError(t *testing.T) {
	cfg := newTestConfig(t, "http://127.0.0.1:1")
	err := NewClient(cfg).CallService(context.Background(), "esphome", "kitchen_print_text", nil)
	assert.Error(t, err)

	cfg.BaseURL = ""
	err = NewClient(cfg).CallService(context.Background(), "esphome", "kitchen_print_text", nil)
	assert.EqualError(t, err, "home_assistant.base_url is not configured")
}

func TestState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/states/switch.kitchen_printer_wake":
			w.Write([]byte(`{"entity_id":"switch.kitchen_printer_wake","state":"on","attributes":{"friendly_name":"Kitchen"},"last_changed":"2026-10-01T08:00:00+00:00"}`))
		case "/api/states/sensor.broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(newTestConfig(t, ts.URL))
	ctx := context.Background()

	state, ok, err := c.State(ctx, "switch.kitchen_printer_wake")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "on", state.State)
	assert.Equal(t, "Kitchen", state.Attributes["friendly_name"])

	_, ok, err = c.State(ctx, "sensor.missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.State(ctx, "sensor.broken")
	assert.Error(t, err)
	assert.False(t, ok)
}

type mockStateCache struct {
	mock.Mock
}

func (m *mockStateCache) Get(ctx context.Context, entityID string) (data.EntityState, bool, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(data.EntityState), args.Bool(1), args.Error(2)
}

func (m *mockStateCache) Set(ctx context.Context, state data.EntityState) error {
	return m.Called(ctx, state).Error(0)
}

func TestStateUsesCache(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"entity_id":"sensor.paper","state":"on"}`))
	}))
	defer ts.Close()

	sc := new(mockStateCache)
	sc.On("Get", mock.Anything, "sensor.usage").Return(data.EntityState{EntityID: "sensor.usage", State: "42"}, true, nil).Once()
	sc.On("Get", mock.Anything, "sensor.paper").Return(data.EntityState{}, false, nil).Once()
	sc.On("Set", mock.Anything, mock.MatchedBy(func(s data.EntityState) bool {
		return s.EntityID == "sensor.paper" && s.State == "on"
	})).Return(nil).Once()

	c := NewClient(newTestConfig(t, ts.URL)).WithStateCache(sc)

	state, ok, err := c.State(context.Background(), "sensor.usage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", state.State)
	assert.Equal(t, 0, requests)

	state, ok, err = c.State(context.Background(), "sensor.paper")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "on", state.State)
	assert.Equal(t, 1, requests)

	sc.AssertExpectations(t)
}
