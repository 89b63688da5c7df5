package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	config "github.com/drummonds/posadmin/config"
	engine "github.com/drummonds/posadmin/engine"
	"github.com/drummonds/posadmin/lazy"
	"github.com/drummonds/posadmin/webapp"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	engine.Logger = Logger
	webapp.Logger = Logger
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()
	cmd := &cobra.Command{
		Use:          "posadmin",
		Short:        "Back-office console for restaurant point of sale",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())
	cmd.AddCommand(serve, routesCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var devMode bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), devMode)
		},
	}
	cmd.Flags().BoolVar(&devMode, "dev", false, "Run in development mode with strict module checks and debug logging")
	return cmd
}

func routesCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			router := webapp.NewRouter(lazy.WithStrict(true))
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tTITLE\tSECTION\tLAYOUT\tMODULE")
			for _, b := range router.Bindings() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", b.Path, b.Route.Title, b.Route.Section, b.InLayout, b.Route.Module)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !check {
				return nil
			}
			if err := router.Validate(); err != nil {
				return err
			}
			if err := router.Prefetch(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d routes, %d modules OK\n", len(router.Bindings()), len(router.Handles()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Validate the table and load every page module")
	return cmd
}

func runServer(ctx context.Context, devMode bool) error {
	if devMode {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("🚀  DEVELOPMENT MODE")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("• Strict page module checks")
		fmt.Println("• Debug logging")
		fmt.Println(strings.Repeat("=", 50) + "\n")
	}
	serverConfig, logger, err := loadConfig(devMode)
	if err != nil {
		return err
	}
	injectGlobals(logger) //inject the logger into all of the packages

	serverHandler, err := newServerHandler(serverConfig, devMode)
	if err != nil {
		Logger.Error("Unable to set up server", "error", err)
		return err
	}
	defer serverHandler.SearchDB.Close()
	if err := serverHandler.StartupChecks(); err != nil {
		return err
	}
	if c := serverHandler.InitializeSchedules(); c != nil {
		defer c.Stop()
	}
	setupEcho(serverHandler)

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}
	addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
	Logger.Info("Starting HTTP server", "address", addr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		errCh <- serverHandler.Echo.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		Logger.Error("Failed to start server", "error", err)
		return err
	case <-ctx.Done():
		Logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return serverHandler.Echo.Shutdown(shutdownCtx)
	}
}

// loadConfig reads the server config, raising the log level in dev mode
func loadConfig(devMode bool) (config.ServerConfig, *slog.Logger, error) {
	v := config.NewViper()
	if devMode {
		v.Set("logging.Level", "debug")
	}
	return config.Load(v)
}

// newServerHandler builds the route table, search index and metrics
func newServerHandler(serverConfig config.ServerConfig, devMode bool) (*engine.ServerHandler, error) {
	opts := []lazy.Option{lazy.WithStrict(devMode)}
	var metrics *engine.LoaderMetrics
	if serverConfig.Metrics.Enabled {
		metrics = engine.NewLoaderMetrics("posadmin")
		opts = append(opts, lazy.WithObserver(metrics))
	}
	router := webapp.NewRouter(opts...)
	searchDB, err := engine.SetupSearchDB(router)
	if err != nil {
		return nil, fmt.Errorf("page search index: %w", err)
	}
	e := echo.New()
	e.HideBanner = true
	return &engine.ServerHandler{
		Router:       router,
		SearchDB:     searchDB,
		Echo:         e,
		ServerConfig: serverConfig,
		Metrics:      metrics,
	}, nil
}

// setupEcho wires middleware, the API routes and the go-app handler
func setupEcho(serverHandler *engine.ServerHandler) {
	e := serverHandler.Echo
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			Logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	appHandler := webapp.Handler(serverHandler.Router, serverHandler.ServerConfig.AppName, serverHandler.ServerConfig.AppDescription)

	// Serve wasm_exec.js (go-app expects it here)
	e.GET("/wasm_exec.js", func(c echo.Context) error {
		return c.File("web/wasm_exec.js")
	})

	// Register go-app specific resources
	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/app-worker.js", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))
	e.File("/web/app.wasm", serverHandler.ServerConfig.WasmPath)

	// Serve static assets
	e.Static("/web", "web")
	e.File("/webapp/webapp.css", "webapp/webapp.css")

	// Route metadata API
	e.GET("/api/routes", serverHandler.GetRoutes)
	e.GET("/api/routes/match", serverHandler.MatchRoute)
	e.GET("/api/routes/search", serverHandler.SearchRoutes)
	e.GET("/api/health", serverHandler.GetHealth)
	e.GET("/api/about", serverHandler.GetAboutInfo)
	if serverHandler.Metrics != nil {
		e.GET(serverHandler.ServerConfig.Metrics.Path, echo.WrapHandler(serverHandler.Metrics.Handler()))
	}

	// Serve go-app handler for all other routes (must be last)
	e.Any("/*", echo.WrapHandler(appHandler))
}
