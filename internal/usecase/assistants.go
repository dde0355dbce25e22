// File: internal/usecase/assistants.go
package usecase

import (
	"regexp"

	"telegram-dns-assistant/internal/config"
	"telegram-dns-assistant/internal/domain/model"
)

// Logical assistant roles. Each maps onto one configured assistant id.
const (
	AssistantZoneAnalyzer    = "zone_analyzer"
	AssistantDNSHelper       = "dns_helper"
	AssistantZoneHealthCheck = "zone_healthcheck"
	AssistantSystemStatus    = "system_status"
)

var assistantIDRe = regexp.MustCompile(`^asst_[A-Za-z0-9]{12,}$`)

// AssistantRegistry resolves role names to assistant ids. It is built
// once at startup from config; nothing is re-read per call.
type AssistantRegistry struct {
	ids map[string]string
}

func NewAssistantRegistry(cfg config.AssistantsConfig) *AssistantRegistry {
	return &AssistantRegistry{ids: map[string]string{
		AssistantZoneAnalyzer:    cfg.ZoneAnalyzer,
		AssistantDNSHelper:       cfg.DNSHelper,
		AssistantZoneHealthCheck: cfg.ZoneHealthCheck,
		AssistantSystemStatus:    cfg.SystemStatus,
	}}
}

// Resolve returns the assistant id for a role, or *model.ConfigError
// when the role is unknown or the id does not match the expected format.
func (r *AssistantRegistry) Resolve(role string) (string, error) {
	id, ok := r.ids[role]
	if !ok || id == "" {
		return "", &model.ConfigError{Assistant: role, Detail: "no assistant id configured"}
	}
	if !assistantIDRe.MatchString(id) {
		return "", &model.ConfigError{Assistant: role, Detail: "malformed assistant id"}
	}
	return id, nil
}
