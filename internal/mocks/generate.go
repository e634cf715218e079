// Package mocks provides mock implementations for testing the climatewatch
// job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the core port interfaces. To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockMonitoringJobRepository(ctrl)
//	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=monitoring_job_repository_mock.go github.com/clearskies/climatewatch/internal/core MonitoringJobRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=processing_client_mock.go github.com/clearskies/climatewatch/internal/core ProcessingClient

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_client_mock.go github.com/clearskies/climatewatch/internal/core PaymentClient

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/clearskies/climatewatch/internal/core CacheRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=reaper_repository_mock.go github.com/clearskies/climatewatch/internal/core ReaperRepository
