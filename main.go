package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"file-vault/backend/api/handler"
	"file-vault/backend/api/route"
	"file-vault/backend/common"
	"file-vault/backend/library/session"
	"file-vault/backend/model"
	"file-vault/backend/service"

	"github.com/gin-gonic/gin"
)

// sessionCacheSize bounds the in-process session store used without Redis.
const sessionCacheSize = 10000

func main() {
	if err := common.LoadConfig(); err != nil {
		common.FatalLog("failed to load config: ", err)
	}
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	common.SetupLogger()
	defer common.SyncLog()
	common.SysLog("File Vault " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis
	if err := common.InitRedisClient(); err != nil {
		common.FatalLog("failed to connect to Redis: ", err)
	}
	var sessionStore session.Store
	if common.RedisEnabled {
		sessionStore = session.NewRedisStore(common.RDB)
	} else {
		sessionStore = session.NewMemoryStore(sessionCacheSize, common.SessionTTL)
	}
	sessions := session.NewResolver(sessionStore)

	// Initialize the record store
	ctx := context.Background()
	store, err := model.OpenStore(ctx)
	if err != nil {
		common.FatalLog("failed to open store: ", err)
	}

	if common.BootstrapToken != "" {
		userID, err := service.EnsureBootstrapSession(ctx, store, sessions, common.BootstrapToken, common.SessionTTL)
		if err != nil {
			common.FatalLog("failed to seed bootstrap session: ", err)
		}
		common.SysLog("bootstrap session ready for user " + userID)
	}

	files := handler.NewFileHandler(service.NewFileService(store, sessions))

	// Initialize HTTP server
	server := gin.Default()
	route.SetRouter(server, files)
	server.NoRoute(func(c *gin.Context) {
		common.RespErrorStr(c, http.StatusNotFound, "Not found")
	})

	port := strconv.Itoa(*common.Port)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server,
	}
	common.SysLog("Server listening on port: " + port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.FatalLog("failed to start server: ", err)
		}
	}()

	waitForShutdown(srv, store)
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight
// requests and releases the store and Redis connections.
func waitForShutdown(srv *http.Server, store model.Store) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	common.SysLog("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.SysError("server shutdown: " + err.Error())
	}
	if err := store.Close(); err != nil {
		common.SysError("close store: " + err.Error())
	}
	if err := common.CloseRedisClient(); err != nil {
		common.SysError("close redis: " + err.Error())
	}
}
