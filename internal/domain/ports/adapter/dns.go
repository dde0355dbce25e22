package adapter

import "context"

// ZoneDataProvider is the port for the upstream DNS management API.
// One provider instance holds one authenticated session; instances are
// not shared across concurrent command invocations.
type ZoneDataProvider interface {
	// ZoneExists validates that the zone is known upstream. Returns
	// domain.ErrZoneNotFound (wrapped with the upstream diagnostic) when
	// it is not, *model.ProtocolError when the response shape is
	// unrecognised.
	ZoneExists(ctx context.Context, zone string) error

	// FetchZoneData exports the zone and returns the raw zone text.
	FetchZoneData(ctx context.Context, zone string) (string, error)

	// FetchHealthCheck runs a health check for the zone and returns the
	// terminal response body as JSON.
	FetchHealthCheck(ctx context.Context, zone string) (string, error)

	// FetchSystemStatus returns the provider's system status JSON.
	FetchSystemStatus(ctx context.Context) (string, error)
}
