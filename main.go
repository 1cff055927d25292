package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skyber-io/privacy-firewall/audit"
	"github.com/skyber-io/privacy-firewall/config"
	"github.com/skyber-io/privacy-firewall/controller"
	"github.com/skyber-io/privacy-firewall/dao"
	"github.com/skyber-io/privacy-firewall/db"
	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/metrics"
	"github.com/skyber-io/privacy-firewall/pdp/cache"
	"github.com/skyber-io/privacy-firewall/pdp/facts"
	"github.com/skyber-io/privacy-firewall/pdp/policy"
	"github.com/skyber-io/privacy-firewall/router"
	"github.com/skyber-io/privacy-firewall/service"
	"github.com/skyber-io/privacy-firewall/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Load the policy rules into the store
	policyStore := policy.NewStore()
	policyFile := config.GetString("policy.file")
	rules, err := policy.LoadFile(policyFile)
	if err != nil {
		if errors.Is(err, fw_errors.ErrPolicyFileMissing) {
			logger.Warn("Policy rules file missing, starting with default deny only",
				zap.String("path", policyFile))
		} else {
			logger.Fatal("Failed to read policy rules", zap.Error(err), zap.String("path", policyFile))
		}
	} else if err := policyStore.Load(rules); err != nil {
		logger.Fatal("Failed to load policy rules", zap.Error(err), zap.String("path", policyFile))
	}

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	prom := metrics.NewProm("privacy_firewall")
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"), config.GetString("audit.index"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository, config.GetInt("audit.queueSize"))

	decisionCache := cache.NewDecisionCache(
		db.RedisClient,
		config.GetDuration("cache.ttl"),
		config.GetDuration("cache.bucket"),
	)

	// A reload invalidates in-process decisions immediately
	eventBus.Subscribe(util.EventPolicyReloaded, func(ctx context.Context, e util.Event) error {
		decisionCache.Flush()
		return nil
	})

	// Initialize DAOs
	employeeDAO := dao.NewEmployeeDAO(db.Neo4jDriver)
	resourceDAO := dao.NewResourceDAO(db.Neo4jDriver)
	relationshipDAO := dao.NewRelationshipDAO(db.Neo4jDriver)

	// Initialize services
	directoryService := service.NewDirectoryService(employeeDAO, resourceDAO, relationshipDAO)
	factBuilder := facts.NewBuilder(directoryService)
	decisionService := service.NewDecisionService(
		validationUtil,
		factBuilder,
		policyStore,
		decisionCache,
		auditService,
		prom,
		eventBus,
	)
	policyService := service.NewPolicyService(policyStore, policyFile, eventBus)

	// Initialize controllers
	controllers := controller.InitializeControllers(decisionService, auditService, policyService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Flush the audit trail before exiting
	if err := auditService.Close(shutdownCtx); err != nil {
		logger.Error("Audit trail flush incomplete", zap.Error(err))
	}

	logger.Info("Server exiting")
}
