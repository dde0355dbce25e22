package ultradns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/model"
)

// lookupResult is the discriminated form of a zone existence lookup.
// The response shape is decided once here; callers never re-inspect it.
type lookupResult struct {
	exists  bool
	message string // upstream errorMessage when the zone is missing
}

// decodeLookup classifies the existence-check body. UltraDNS answers
// with a JSON object when the zone exists and with a list whose first
// element carries an errorMessage when it does not; anything else is a
// protocol violation.
func decodeLookup(endpoint string, body []byte) (lookupResult, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return lookupResult{}, &model.ProtocolError{Endpoint: endpoint, Detail: "empty body"}
	}
	switch trimmed[0] {
	case '{':
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return lookupResult{}, &model.ProtocolError{Endpoint: endpoint, Detail: err.Error()}
		}
		return lookupResult{exists: true}, nil
	case '[':
		var list []map[string]any
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return lookupResult{}, &model.ProtocolError{Endpoint: endpoint, Detail: err.Error()}
		}
		if len(list) > 0 {
			if msg, ok := list[0]["errorMessage"].(string); ok {
				return lookupResult{exists: false, message: msg}, nil
			}
		}
		return lookupResult{}, &model.ProtocolError{Endpoint: endpoint, Detail: "error list without errorMessage"}
	default:
		return lookupResult{}, &model.ProtocolError{Endpoint: endpoint, Detail: "neither object nor list"}
	}
}

// ZoneExists validates the zone upstream. No export or health-check
// submission happens for a zone that fails this lookup.
func (c *Client) ZoneExists(ctx context.Context, zone string) error {
	endpoint := "/v3/zones/" + url.PathEscape(zone)
	body, _, err := c.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("validate zone %s: %w", zone, err)
	}
	res, err := decodeLookup(endpoint, body)
	if err != nil {
		return err
	}
	if !res.exists {
		return fmt.Errorf("zone validation failed: %s: %w", res.message, domain.ErrZoneNotFound)
	}
	return nil
}

// startZoneExport submits an export job and returns the task id.
func (c *Client) startZoneExport(ctx context.Context, zones []string) (string, error) {
	const endpoint = "/v3/zones/export"
	body, _, err := c.post(ctx, endpoint, map[string][]string{"zoneNames": zones})
	if err != nil {
		return "", fmt.Errorf("start zone export: %w", err)
	}
	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &model.ProtocolError{Endpoint: endpoint, Detail: err.Error()}
	}
	if resp.TaskID == "" {
		return "", &model.ProtocolError{Endpoint: endpoint, Detail: "missing task_id"}
	}
	return resp.TaskID, nil
}

// exportTaskState maps the export task vocabulary {PENDING, COMPLETE,
// ERROR} (field "code") onto the canonical states. Anything that is not
// terminal counts as pending.
func exportTaskState(raw json.RawMessage) (model.TaskState, error) {
	var st struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return "", &model.ProtocolError{Endpoint: "/tasks", Detail: err.Error()}
	}
	switch st.Code {
	case "COMPLETE":
		return model.TaskSucceeded, nil
	case "ERROR":
		return model.TaskFailed, nil
	default:
		return model.TaskPending, nil
	}
}

// healthTaskState maps the health-check vocabulary {IN_PROGRESS,
// COMPLETED, FAILED} (field "state") onto the canonical states.
func healthTaskState(raw json.RawMessage) (model.TaskState, error) {
	var st struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return "", &model.ProtocolError{Endpoint: "/healthchecks", Detail: err.Error()}
	}
	switch st.State {
	case "COMPLETED":
		return model.TaskSucceeded, nil
	case "FAILED":
		return model.TaskFailed, nil
	default:
		return model.TaskPending, nil
	}
}

// FetchZoneData exports the zone and returns the raw zone text.
func (c *Client) FetchZoneData(ctx context.Context, zone string) (string, error) {
	if err := c.ZoneExists(ctx, zone); err != nil {
		return "", err
	}
	taskID, err := c.startZoneExport(ctx, []string{zone})
	if err != nil {
		return "", err
	}
	c.log.Debug().Str("zone", zone).Str("task_id", taskID).Msg("zone export submitted")

	observe := func(ctx context.Context) (json.RawMessage, error) {
		body, _, err := c.get(ctx, "/tasks/"+taskID)
		return body, err
	}
	if _, err := c.poller.Await(ctx, model.TaskKindExport, taskID, observe, exportTaskState); err != nil {
		return "", err
	}

	body, _, err := c.get(ctx, "/tasks/"+taskID+"/result")
	if err != nil {
		return "", fmt.Errorf("download export %s: %w", taskID, err)
	}
	return string(body), nil
}

// FetchHealthCheck runs a health check and returns the terminal
// response body. Unlike exports there is no separate download step: the
// COMPLETED response itself is the result.
func (c *Client) FetchHealthCheck(ctx context.Context, zone string) (string, error) {
	if err := c.ZoneExists(ctx, zone); err != nil {
		return "", err
	}
	body, _, err := c.post(ctx, "/v1/zones/"+url.PathEscape(zone)+"/healthchecks", map[string]any{})
	if err != nil {
		return "", fmt.Errorf("start health check: %w", err)
	}
	var resp struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &model.ProtocolError{Endpoint: "/healthchecks", Detail: err.Error()}
	}
	if resp.Location == "" {
		return "", &model.ProtocolError{Endpoint: "/healthchecks", Detail: "missing location"}
	}
	c.log.Debug().Str("zone", zone).Str("location", resp.Location).Msg("health check submitted")

	observe := func(ctx context.Context) (json.RawMessage, error) {
		b, _, err := c.get(ctx, resp.Location)
		return b, err
	}
	raw, err := c.poller.Await(ctx, model.TaskKindHealthCheck, resp.Location, observe, healthTaskState)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
