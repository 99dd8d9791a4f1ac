package repository_test

import (
	"shortlink/internal/repository"
	"shortlink/internal/repository/inmemory"
	"shortlink/internal/repository/postgres"
)

var (
	_ repository.Storage = (*postgres.PostgresStorage)(nil)
	_ repository.Storage = (*inmemory.InmemoryStorage)(nil)
)
