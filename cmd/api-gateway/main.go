package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/clock"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/logging"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/metrics"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/policy"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/repository/clickhouse"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/repository/postgres"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/ledger"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/reporting"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement/evm"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/transport/rest"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	dbReadyAttempts = 10
	dbReadyBackoff  = 3 * time.Second
)

type config struct {
	Addr     string `long:"addr" env:"API_GATEWAY_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr string `long:"rest-addr" env:"API_GATEWAY_REST_ADDR" description:"REST listen address" default:":8001"`

	PostgresDSN   string `long:"postgres-dsn" env:"API_GATEWAY_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"API_GATEWAY_CLICKHOUSE_DSN" description:"ClickHouse DSN; reporting is disabled when empty"`

	RPCURL        string        `long:"rpc-url" env:"API_GATEWAY_RPC_URL" description:"EVM JSON-RPC endpoint" required:"true"`
	Network       string        `long:"network" env:"API_GATEWAY_NETWORK" description:"settlement network label" default:"mainnet"`
	Contract      string        `long:"contract" env:"API_GATEWAY_CONTRACT" description:"membership contract address" required:"true"`
	ChainID       int64         `long:"chain-id" env:"API_GATEWAY_CHAIN_ID" description:"EVM chain id" required:"true"`
	Confirmations uint64        `long:"confirmations" env:"API_GATEWAY_CONFIRMATIONS" description:"blocks required on top of a settlement" default:"3"`
	GatewayTimeout time.Duration `long:"gateway-timeout" env:"API_GATEWAY_SETTLEMENT_TIMEOUT" description:"timeout of each settlement gateway call" default:"10s"`

	CompanyWallet             string `long:"company-wallet" env:"API_GATEWAY_COMPANY_WALLET" description:"company account used when the settings table has none"`
	LevelsFile                string `long:"levels-file" env:"API_GATEWAY_LEVELS_FILE" description:"YAML level policy overriding the embedded one"`
	AllowUnregisteredReferrer bool   `long:"allow-unregistered-referrer" env:"API_GATEWAY_ALLOW_UNREGISTERED_REFERRER" description:"let provisional accounts attach below unregistered referrers"`

	JWTSecret    string   `long:"jwt-secret" env:"API_GATEWAY_JWT_SECRET" description:"HS256 secret of member tokens" required:"true"`
	JWTIssuer    string   `long:"jwt-issuer" env:"API_GATEWAY_JWT_ISSUER" description:"expected token issuer"`
	ConfirmRPS   float64  `long:"confirm-rps" env:"API_GATEWAY_CONFIRM_RPS" description:"confirmation requests per second per wallet" default:"0.5"`
	ConfirmBurst int      `long:"confirm-burst" env:"API_GATEWAY_CONFIRM_BURST" description:"confirmation burst per wallet" default:"3"`
	CORSOrigins  []string `long:"cors-origin" env:"API_GATEWAY_CORS_ORIGINS" env-delim:"," description:"allowed CORS origins" default:"*"`

	Logging logging.Options `group:"logging"`
}

func main() {
	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api gateway failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	pol, err := loadPolicy(cfg.LevelsFile)
	if err != nil {
		return err
	}
	var company model.Wallet
	if cfg.CompanyWallet != "" {
		if company, err = model.ParseWallet(cfg.CompanyWallet); err != nil {
			return fmt.Errorf("company wallet: %w", err)
		}
	}
	if !common.IsHexAddress(cfg.Contract) {
		return fmt.Errorf("contract %q is not an address", cfg.Contract)
	}

	repo, err := postgres.NewRepository(cfg.PostgresDSN, metrics.NewPostgresRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()
	if err := waitFor(ctx, "postgres", repo.Ping, logger); err != nil {
		return err
	}

	client, err := evm.Dial(cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dial settlement rpc: %w", err)
	}
	defer client.Close()
	evmGateway, err := evm.NewGateway(client, evm.Config{
		Contract:      common.HexToAddress(cfg.Contract),
		ChainID:       big.NewInt(cfg.ChainID),
		Confirmations: cfg.Confirmations,
	})
	if err != nil {
		return fmt.Errorf("init settlement gateway: %w", err)
	}
	gateway := settlement.NewObservedGateway(evmGateway, metrics.NewSettlementGateway(cfg.Network))

	var (
		mirror  ledger.Mirror
		reports ledger.Reports
	)
	if cfg.ClickhouseDSN != "" {
		chRepo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init reporting repository: %w", err)
		}
		defer func() {
			_ = chRepo.Close()
		}()
		if err := waitFor(ctx, "clickhouse", chRepo.Ping, logger); err != nil {
			return err
		}
		m, err := reporting.NewMirror(chRepo, metrics.NewReportingMirror(), logger.Named("mirror"), reporting.MirrorConfig{})
		if err != nil {
			return fmt.Errorf("init reporting mirror: %w", err)
		}
		m.Start(ctx)
		defer m.Stop()
		mirror, reports = m, chRepo
	} else {
		logger.Warn("clickhouse dsn not set, reporting disabled")
	}

	svc, err := ledger.NewService(repo, gateway, pol, metrics.NewLedgerService(), mirror, reports, logger.Named("ledger"), ledger.Config{
		CompanyWallet:             company,
		GatewayTimeout:            cfg.GatewayTimeout,
		AllowUnregisteredReferrer: cfg.AllowUnregisteredReferrer,
	})
	if err != nil {
		return err
	}

	api, err := rest.NewHandler(svc, metrics.NewHTTPServer(), logger.Named("rest"), rest.Config{
		Auth:         rest.AuthConfig{HMACSecret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
		ConfirmLimit: rest.RateLimit{PerSecond: cfg.ConfirmRPS, Burst: cfg.ConfirmBurst},
	})
	if err != nil {
		return fmt.Errorf("init rest api: %w", err)
	}

	healthSrv, err := serveGRPC(ctx, cfg.Addr, logger)
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(dialTarget(cfg.Addr), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial grpc health: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()
	gw := gwruntime.NewServeMux(gwruntime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("/healthz", gw)
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           c.Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		healthSrv.Shutdown()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// serveGRPC starts the health service behind the usual interceptor chain.
func serveGRPC(ctx context.Context, addr string, logger *zap.Logger) (*health.Server, error) {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen grpc: %w", err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("GRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return healthSrv, nil
}

// dialTarget turns a listen address such as ":8000" into a dialable one.
func dialTarget(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}

func waitFor(ctx context.Context, name string, ping func(context.Context) error, logger *zap.Logger) error {
	err := clock.Retry(ctx, dbReadyAttempts, dbReadyBackoff, ping, func(attempt int, err error) {
		logger.Warn("store not ready", zap.String("store", name), zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("wait for %s: %w", name, err)
	}
	return nil
}

func loadPolicy(path string) (*policy.Policy, error) {
	if path == "" {
		return policy.Default()
	}
	pol, err := policy.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load level policy: %w", err)
	}
	return pol, nil
}
