//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"hotelbook/pkg/auth"
	"hotelbook/pkg/client"
	"hotelbook/pkg/config"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", config.DefaultPort)

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", config.DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", config.DefaultMongoDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		JWTSecret:    getEnv("TEST_JWT_SECRET", os.Getenv(config.EnvJWTSecret)),
	}
}

// Setup cleans the booking collections and waits for the service. The
// returned client carries no token; use ClientAs for authenticated calls.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.HttpClient) {
	t.Helper()

	if e.JWTSecret == "" {
		t.Skip("TEST_JWT_SECRET or JWT_SECRET must match the running service")
	}

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanBookings(t)

	anonymous := client.NewHttpClient(e.ServerURL, "")
	if err := anonymous.WaitForHealthy(context.Background(), DefaultHealthCheckTimeout); err != nil {
		t.Fatal(err)
	}

	return mongo, anonymous
}

// ClientAs returns a client authenticated as subject with role.
func (e *TestEnv) ClientAs(t *testing.T, subject string, role auth.Role) *client.HttpClient {
	t.Helper()

	token, err := auth.NewTokenIssuer(e.JWTSecret, time.Hour).Issue(subject, role, subject+"@hotelbook.test")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return client.NewHttpClient(e.ServerURL, token)
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanBookings(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
