package system_healthcheck

import (
	"context"
	"time"

	"bugtrail/internal/cache"
	"bugtrail/internal/storage"

	"github.com/valkey-io/valkey-go"
)

type HealthcheckService struct {
	cacheClient valkey.Client
}

type HealthStatus struct {
	Healthy  bool   `json:"healthy"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

const checkTimeout = 3 * time.Second

func (s *HealthcheckService) Check() *HealthStatus {
	status := &HealthStatus{Healthy: true, Database: "ok", Cache: "ok"}

	if err := storage.GetDb().Exec("SELECT 1").Error; err != nil {
		status.Healthy = false
		status.Database = err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if err := s.cacheClient.Do(ctx, s.cacheClient.B().Ping().Build()).Error(); err != nil {
		status.Healthy = false
		status.Cache = err.Error()
	}

	return status
}

var healthcheckService = &HealthcheckService{cache.GetCache()}
