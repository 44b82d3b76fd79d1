package tmpl

import (
	"testing"

	"djp.chapter42.de/printerbridge/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareTemplatesDefaults(t *testing.T) {
	cfg := &data.HomeAssistantConfig{}
	require.NoError(t, PrepareTemplates(cfg))

	path, err := RenderEndpoint(cfg.ParsedCallServiceTpl, EndpointParams{Domain: "esphome", Service: "kitchen_print_text"})
	require.NoError(t, err)
	assert.Equal(t, "/api/services/esphome/kitchen_print_text", path)

	path, err = RenderEndpoint(cfg.ParsedStateTpl, EndpointParams{Entity: "switch.kitchen_printer_wake"})
	require.NoError(t, err)
	assert.Equal(t, "/api/states/switch.kitchen_printer_wake", path)
}

func TestRenderEndpointEscapes(t *testing.T) {
	cfg := &data.HomeAssistantConfig{}
	cfg.Endpoints.State = "/proxy/{{.Entity}}/state"
	require.NoError(t, PrepareTemplates(cfg))

	path, err := RenderEndpoint(cfg.ParsedStateTpl, EndpointParams{Entity: "sensor.a/b c"})
	require.NoError(t, err)
	assert.Equal(t, "/proxy/sensor.a%2Fb%20c/state", path)
}

func TestPrepareTemplatesInvalid(t *testing.T) {
	cfg := &data.HomeAssistantConfig{}
	cfg.Endpoints.CallService = "/api/services/{{.Domain"
	assert.Error(t, PrepareTemplates(cfg))

	_, err := RenderEndpoint(nil, EndpointParams{})
	assert.Error(t, err)
}
