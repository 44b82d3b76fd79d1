package tmpl

import (
	"bytes"
	"fmt"
	"net/url"
	"text/template"

	"djp.chapter42.de/printerbridge/internal/data"
)

const (
	DefaultCallServiceEndpoint = "/api/services/{{.Domain}}/{{.Service}}"
	DefaultStateEndpoint       = "/api/states/{{.Entity}}"
)

// EndpointParams are the values available inside endpoint templates. They are path-escaped.
type EndpointParams struct {
	Domain  string
	Service string
	Entity  string
}

func PrepareTemplates(cfg *data.HomeAssistantConfig) error {
	if cfg.Endpoints.CallService == "" {
		cfg.Endpoints.CallService = DefaultCallServiceEndpoint
	}
	if cfg.Endpoints.State == "" {
		cfg.Endpoints.State = DefaultStateEndpoint
	}

	callTpl, err := template.New("call_service").Option("missingkey=error").Parse(cfg.Endpoints.CallService)
	if err != nil {
		return fmt.Errorf("error in call_service endpoint template: %w", err)
	}
	stateTpl, err := template.New("state").Option("missingkey=error").Parse(cfg.Endpoints.State)
	if err != nil {
		return fmt.Errorf("error in state endpoint template: %w", err)
	}

	cfg.ParsedCallServiceTpl = callTpl
	cfg.ParsedStateTpl = stateTpl

	return nil
}

func RenderEndpoint(tpl *template.Template, params EndpointParams) (string, error) {
	if tpl == nil {
		return "", fmt.Errorf("endpoint template not prepared")
	}
	escaped := EndpointParams{
		Domain:  url.PathEscape(params.Domain),
		Service: url.PathEscape(params.Service),
		Entity:  url.PathEscape(params.Entity),
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, escaped); err != nil {
		return "", err
	}
	return buf.String(), nil
}
