package config

import "time"

// CoreAPIConfig describes how to reach the remote core booking API. All
// business data lives behind it; this service never talks to a database of
// its own.
type CoreAPIConfig interface {
	GetCoreAPIBaseURL() string
	GetCoreAPIAdminPath() string
	GetCoreAPIBusinessPath() string
	GetCoreAPITimeout() time.Duration
}

type CoreAPI struct{}

var _ CoreAPIConfig = CoreAPI{}

func (CoreAPI) GetCoreAPIBaseURL() string {
	return GetEnv("CORE_API_BASE_URL", "https://api.flyodesk.com")
}

func (CoreAPI) GetCoreAPIAdminPath() string {
	return GetEnv("CORE_API_ADMIN_PATH", "/core/v1/admin")
}

func (CoreAPI) GetCoreAPIBusinessPath() string {
	return GetEnv("CORE_API_BUSINESS_PATH", "/core/v1/businessFlyo")
}

func (CoreAPI) GetCoreAPITimeout() time.Duration {
	return 30 * time.Second
}
