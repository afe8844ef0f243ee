package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed routes.json
var routesData []byte

// Endpoint binds a route pattern to the permission required to call it.
// A zero Permission on a listed endpoint means any authenticated caller is allowed.
type Endpoint struct {
	Path       string     `json:"path"`
	Method     string     `json:"method"`
	Permission Permission `json:"permission,omitempty"`
	Skip       bool       `json:"skip"`
}

type PermissionData struct {
	Endpoints []Endpoint `json:"endpoints"`
	Skip      bool       `json:"skip"`
}

// FindPermissions matches path ignoring a trailing slash, so "/v1/bookings" and "/v1/bookings/"
// resolve to the same entry. The second result is false when no entry matches.
func (r *PermissionData) FindPermissions(path, method string) (Endpoint, bool) {
	path = trimSlash(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Endpoint) bool {
		return rp.Method == method && trimSlash(rp.Path) == path
	})

	if idx == -1 {
		return Endpoint{}, false
	}

	return r.Endpoints[idx], true
}

func trimSlash(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	return &permissions, nil
}

func Get() (*PermissionData, error) {
	permissions, err := Parse(routesData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil, err
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions, nil
}
