// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/infra/dependency"
	"github.com/spendwise/backend/internal/integration/adapters"
	"github.com/spendwise/backend/internal/integration/realtime"
	"github.com/spendwise/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

type testContext struct {
	uri         string
	headers     map[string]string
	client      *http.Client
	response    *response
	db          *mock.Db
	clock       *mock.Clock
	emailAPI    *mock.EmailAPI
	redis       *mock.Redis
	issuer      *adapters.JWTIssuer
	accessToken string
	expenseIDs  []uuid.UUID
	stream      *analyticsStream
}

type response struct {
	status int
	body   any
}

// analyticsStream is an open server-sent events connection.
type analyticsStream struct {
	reader *bufio.Reader
	cancel context.CancelFunc
	body   interface{ Close() error }
}

var (
	serverInit sync.Once
	serverErr  error
	injector   *dependency.Injector
	suite      *testContext
	suiteInit  sync.Once
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if injector != nil {
			injector.Close()
		}
		if suite != nil {
			suite.emailAPI.Close()
			suite.redis.Close()
			suite.db.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	suiteInit.Do(func() {
		suite = &testContext{
			client:   &http.Client{Timeout: 10 * time.Second},
			clock:    mock.NewClock(time.Now()),
			emailAPI: mock.NewEmailAPI(),
			redis:    mock.NewRedis(),
			issuer:   adapters.NewJWTIssuer(testJWTSecret, time.Hour),
			db:       mock.NewDb(),
		}
	})
	test := suite

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.closeStream()
		return ctx, nil
	})

	registerSetupSteps(ctx, test)
	registerRequestSteps(ctx, test)
	registerResponseSteps(ctx, test)
	registerStreamSteps(ctx, test)
	registerEmailSteps(ctx, test)
	registerDatabaseSteps(ctx, test)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.expenseIDs = nil
	t.emailAPI.Reset()
	t.clock.Set(time.Now())

	if err := t.redis.Flush(context.Background()); err != nil {
		return err
	}
	return t.db.Truncate()
}

func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// testConfig mirrors production settings, with email delivered to the stub API.
func (t *testContext) testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment: "test",
			FrontendURL: "http://localhost:5173",
		},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite},
		Realtime: config.RealtimeConfig{
			Backend:           config.RealtimeRedis,
			HeartbeatInterval: 200 * time.Millisecond,
		},
		Auth: config.AuthConfig{Provider: config.AuthProviderJWT, JWTSecret: testJWTSecret},
		Email: config.EmailConfig{
			ResendAPIKey:    "re_test_key",
			APIBaseURL:      t.emailAPI.URL(),
			FromName:        "SpendWise",
			FromEmail:       "alerts@spendwise.test",
			PollInterval:    time.Second,
			BatchSize:       10,
			CleanupInterval: time.Hour,
			Retention:       24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{MaxRequests: 60, Window: time.Minute},
		App:       config.AppConfig{Timezone: "UTC"},
	}
}

func (t *testContext) startServer() error {
	serverInit.Do(func() {
		port, err := findAvailablePort()
		if err != nil {
			serverErr = err
			return
		}
		t.uri = fmt.Sprintf("http://127.0.0.1:%d", port)

		injector, err = dependency.NewInjector(context.Background(), t.testConfig(), t.db.Conn(), dependency.Overrides{
			Clock:    t.clock,
			Notifier: realtime.NewRedisNotifier(t.redis.Client()),
		})
		if err != nil {
			serverErr = err
			return
		}

		server := &http.Server{
			Addr:    fmt.Sprintf("127.0.0.1:%d", port),
			Handler: injector.Router.Setup("test"),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Test server stopped", "error", err)
			}
		}()
	})
	if serverErr != nil {
		return serverErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy", t.uri)
}
