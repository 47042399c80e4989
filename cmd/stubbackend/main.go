package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamed0406/aiprobe/internal/config"
	"github.com/hamed0406/aiprobe/internal/logging"
	"github.com/hamed0406/aiprobe/internal/stubserver"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	outcome, err := stubserver.ParseOutcome(cfg.StubOutcome)
	if err != nil {
		log.Fatal(err)
	}
	stub := stubserver.NewServer(logger, outcome)

	logger.Info("stub_listen", zap.String("addr", cfg.StubAddr), zap.String("outcome", string(outcome)))
	log.Printf("stub backend on http://%s/api (outcome=%s)", cfg.StubAddr, outcome)
	if err := http.ListenAndServe(cfg.StubAddr, stub.Router("/api")); err != nil {
		log.Fatal(err)
	}
}
