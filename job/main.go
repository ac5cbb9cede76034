package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"landing/config"
	"landing/job/verify_campaigns"
	"landing/pkg/logutil"
	"landing/pkg/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	opt := config.NewOptions()
	opt.LoadEnv()

	ctx := logutil.InitZeroLog(context.Background(), opt.LogLevel)
	ctx, _ = logutil.WithTaskID(ctx)

	cfg := config.NewConfig()
	if err := cfg.Load(ctx, opt.ConfigPath); err != nil {
		log.Ctx(ctx).Error().Msgf("load config failed: %v", err)
		os.Exit(1)
	}

	jobs := map[string]service.Job{
		"verify-campaigns": verify_campaigns.New(cfg, http.DefaultClient),
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./job <job_name>")
		os.Exit(1)
	}

	jobName := os.Args[1]
	job, exists := jobs[jobName]
	if !exists {
		log.Ctx(ctx).Error().Msgf("job %s not found", jobName)
		os.Exit(1)
	}

	if err := service.RunJob(ctx, job); err != nil {
		log.Ctx(ctx).Error().Msgf("job %s failed: %v", jobName, err)
		os.Exit(1)
	}

	log.Ctx(ctx).Info().Msg("job executed successfully")
}
