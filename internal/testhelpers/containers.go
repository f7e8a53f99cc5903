// Package testhelpers starts throwaway backing services for integration
// tests. Every helper skips the calling test when docker is not installed.
package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
)

const (
	postgresUser     = "postgres"
	postgresPassword = "postpass"
	postgresDB       = "alchemorsel"
)

// RequireDocker skips t when docker is not available.
func RequireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

// StartPostgres runs a PostgreSQL container and returns a config whose
// postgres store driver points at it.
func StartPostgres(t *testing.T) *config.Config {
	t.Helper()
	RequireDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						postgresUser, postgresPassword, host, port.Port(), postgresDB)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	terminateOnCleanup(t, container)

	host, port := endpoint(t, container, "5432")
	t.Logf("Postgres container listening on %s:%s", host, port)

	return &config.Config{
		StoreDriver:     config.StorePostgres,
		RecordNamespace: "test",
		DBHost:          host,
		DBPort:          port,
		DBUser:          postgresUser,
		DBPassword:      postgresPassword,
		DBName:          postgresDB,
		DBSSLMode:       "disable",
	}
}

// StartRedis runs a Redis container and returns a config whose redis store
// driver points at it.
func StartRedis(t *testing.T) *config.Config {
	t.Helper()
	RequireDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	terminateOnCleanup(t, container)

	host, port := endpoint(t, container, "6379")
	t.Logf("Redis container listening on %s:%s", host, port)

	return &config.Config{
		StoreDriver:     config.StoreRedis,
		RecordNamespace: "test",
		RedisHost:       host,
		RedisPort:       port,
	}
}

func endpoint(t *testing.T, container testcontainers.Container, port nat.Port) (string, string) {
	t.Helper()
	ctx := context.Background()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	return host, mapped.Port()
}

func terminateOnCleanup(t *testing.T, container testcontainers.Container) {
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})
}
