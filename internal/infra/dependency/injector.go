// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/analytics"
	"github.com/spendwise/backend/internal/application/usecase/budget"
	"github.com/spendwise/backend/internal/application/usecase/expense"
	"github.com/spendwise/backend/internal/application/usecase/profile"
	"github.com/spendwise/backend/internal/infra/server/router"
	"github.com/spendwise/backend/internal/integration/adapters"
	"github.com/spendwise/backend/internal/integration/email"
	"github.com/spendwise/backend/internal/integration/email/templates"
	"github.com/spendwise/backend/internal/integration/entrypoint/controller"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
	"github.com/spendwise/backend/internal/integration/persistence"
	"github.com/spendwise/backend/internal/integration/realtime"
)

// Overrides replaces collaborators that would otherwise be built from the
// configuration. Zero fields fall back to the configured implementation.
type Overrides struct {
	Clock         adapter.Clock
	Verifier      adapter.TokenVerifier
	Notifier      adapter.ChangeNotifier
	EmailSender   adapter.EmailSender
	DatabaseProbe controller.Probe
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	Clock       adapter.Clock
	Notifier    adapter.ChangeNotifier
	EmailWorker *email.Worker
	RateLimiter *middleware.RateLimiter

	// PostgresNotifier is set when REALTIME_BACKEND=postgres; its Run loop must be started.
	PostgresNotifier *realtime.PostgresNotifier
	// RedisClient is set when REALTIME_BACKEND=redis.
	RedisClient *redis.Client
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(ctx context.Context, cfg *config.Config, db *gorm.DB, overrides Overrides) (*Injector, error) {
	inj := &Injector{
		Config: cfg,
		DB:     db,
	}

	clock := overrides.Clock
	if clock == nil {
		var err error
		if clock, err = adapters.NewSystemClock(cfg.App.Timezone); err != nil {
			return nil, err
		}
	}
	inj.Clock = clock

	// Create repositories
	expenseRepo := persistence.NewExpenseRepository(db)
	profileRepo := persistence.NewProfileRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	notifier := overrides.Notifier
	if notifier == nil {
		var err error
		if notifier, err = inj.newNotifier(); err != nil {
			return nil, err
		}
	}
	inj.Notifier = notifier
	recordSource := realtime.NewRecordSource(expenseRepo, notifier)

	verifier := overrides.Verifier
	if verifier == nil {
		var err error
		if verifier, err = newVerifier(ctx, cfg.Auth); err != nil {
			return nil, err
		}
	}

	// Create email services
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	sender := overrides.EmailSender
	if sender == nil {
		if sender, err = newEmailSender(cfg.Email); err != nil {
			return nil, err
		}
	}
	emailService := email.NewService(emailQueueRepo, clock)
	inj.EmailWorker = email.NewWorker(emailQueueRepo, sender, renderer, clock, email.WorkerConfig{
		PollInterval:    cfg.Email.PollInterval,
		BatchSize:       cfg.Email.BatchSize,
		CleanupInterval: cfg.Email.CleanupInterval,
		Retention:       cfg.Email.Retention,
		ClaimTimeout:    cfg.Email.ClaimTimeout,
	})

	// Create profile and budget use cases
	getProfileUseCase := profile.NewGetProfileUseCase(profileRepo)
	updateProfileUseCase := profile.NewUpdateProfileUseCase(profileRepo)
	budgetStatusUseCase := budget.NewGetBudgetStatusUseCase(expenseRepo, getProfileUseCase, clock)
	budgetAlertUseCase := budget.NewCheckBudgetAlertUseCase(expenseRepo, profileRepo, emailService, clock, cfg.Server.FrontendURL)

	// Create expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, notifier, budgetAlertUseCase)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, notifier)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo, notifier)
	clearExpensesUseCase := expense.NewClearAllExpensesUseCase(expenseRepo, notifier)

	// Create analytics use cases
	getAnalyticsUseCase := analytics.NewGetAnalyticsUseCase(expenseRepo, clock)
	watchAnalyticsUseCase := analytics.NewWatchAnalyticsUseCase(recordSource, clock)
	dataRangeUseCase := analytics.NewGetDataRangeUseCase(expenseRepo)

	// Create controllers
	databaseProbe := overrides.DatabaseProbe
	if databaseProbe == nil {
		databaseProbe = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	var realtimeProbe controller.Probe
	if p, ok := notifier.(interface{ Ping(context.Context) error }); ok {
		realtimeProbe = p.Ping
	}
	healthController := controller.NewHealthController(databaseProbe, realtimeProbe, cfg.Realtime.Backend, clock)

	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		listExpensesUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
		clearExpensesUseCase,
	)

	analyticsController := controller.NewAnalyticsController(
		getAnalyticsUseCase,
		watchAnalyticsUseCase,
		dataRangeUseCase,
		cfg.Realtime.HeartbeatInterval,
	)

	profileController := controller.NewProfileController(getProfileUseCase, updateProfileUseCase)
	budgetController := controller.NewBudgetController(budgetStatusUseCase)
	categoryController := controller.NewCategoryController()

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		inj.RateLimiter = middleware.NewRateLimiter(1000, cfg.RateLimit.Window)
	} else {
		inj.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	inj.Router = router.NewRouter(
		healthController,
		categoryController,
		expenseController,
		analyticsController,
		profileController,
		budgetController,
		inj.RateLimiter,
		authMiddleware,
		cfg.Server.FrontendURL,
	)

	return inj, nil
}

// newNotifier builds the change notifier selected by REALTIME_BACKEND.
func (inj *Injector) newNotifier() (adapter.ChangeNotifier, error) {
	switch inj.Config.Realtime.Backend {
	case config.RealtimeRedis:
		opts, err := redis.ParseURL(inj.Config.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		inj.RedisClient = redis.NewClient(opts)
		slog.Info("Realtime backend initialized", "backend", config.RealtimeRedis)
		return realtime.NewRedisNotifier(inj.RedisClient), nil
	case config.RealtimePostgres:
		n, err := realtime.NewPostgresNotifier(inj.DB, inj.Config.Database.URL)
		if err != nil {
			return nil, err
		}
		inj.PostgresNotifier = n
		slog.Info("Realtime backend initialized", "backend", config.RealtimePostgres)
		return n, nil
	case config.RealtimeMemory, "":
		slog.Info("Realtime backend initialized", "backend", config.RealtimeMemory)
		return realtime.NewMemoryNotifier(), nil
	default:
		return nil, fmt.Errorf("unsupported realtime backend %q", inj.Config.Realtime.Backend)
	}
}

// newVerifier builds the token verifier selected by AUTH_PROVIDER.
func newVerifier(ctx context.Context, cfg config.AuthConfig) (adapter.TokenVerifier, error) {
	switch cfg.Provider {
	case config.AuthProviderFirebase:
		return adapters.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
	case config.AuthProviderJWT, "":
		return adapters.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
	}
}

// newEmailSender uses Resend when an API key is configured and logs emails otherwise.
func newEmailSender(cfg config.EmailConfig) (adapter.EmailSender, error) {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, budget alert emails will only be logged")
		return email.NewLoggingSender(), nil
	}

	client := email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
	if cfg.APIBaseURL != "" {
		if err := client.SetBaseURL(cfg.APIBaseURL); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// Close releases connections owned by the injector. The postgres listener
// is closed by its Run loop.
func (inj *Injector) Close() {
	if inj.RedisClient != nil {
		if err := inj.RedisClient.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
}
