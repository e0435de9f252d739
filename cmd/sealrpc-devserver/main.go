package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sealrpc/internal/app"
	"sealrpc/internal/crypto"
	"sealrpc/internal/metrics"
	"sealrpc/internal/server"
	"sealrpc/internal/util/log"
)

func main() {
	cfg, err := app.DevServerFromEnv()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	flush, err := app.InitLogging(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	defer flush()

	curve, err := crypto.CurveByName(cfg.Curve)
	if err != nil {
		log.Fatal("curve", zap.Error(err))
	}
	suite, err := crypto.NewSuite(cfg.Cipher, nil)
	if err != nil {
		log.Fatal("cipher", zap.Error(err))
	}
	srv, err := server.New(curve, suite)
	if err != nil {
		log.Fatal("server", zap.Error(err))
	}
	defer srv.Close()

	reg := prometheus.NewRegistry()
	if srv.Metrics, err = metrics.New(reg); err != nil {
		log.Fatal("metrics", zap.Error(err))
	}
	router := srv.Router()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("public key", zap.String("pubkey", srv.PublicKey().Hex()))
	if err := srv.Serve(ctx, cfg.ListenAddr, router); err != nil {
		log.Error("serve", zap.Error(err))
	}
}
