package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"landing/config"
	"landing/dep"
	"landing/handler"
	"landing/middleware"
	"landing/pkg/logutil"
	"landing/pkg/router"
	"landing/pkg/service"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	ctx context.Context
	opt *config.Option
	cfg *config.Config

	httpServer *http.Server

	// deps
	origin      http.Handler
	mailingList dep.MailingList

	// page middlewares
	campaignMeta *middleware.CampaignMeta

	// api handlers
	subscriptionHandler handler.SubscriptionHandler
	petitionHandler     handler.PetitionHandler
}

func main() {
	s := new(server)
	if err := service.Run(s); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

func (s *server) Init() error {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	opt := config.NewOptions()
	opt.LoadEnv()

	s.opt = opt

	return nil
}

func (s *server) Start() error {
	var err error

	// ====== init logger ===== //

	s.ctx = logutil.InitZeroLog(context.Background(), s.opt.LogLevel)

	// ===== init config ===== //

	s.cfg = config.NewConfig()
	if err = s.cfg.Load(s.ctx, s.opt.ConfigPath); err != nil {
		log.Ctx(s.ctx).Error().Msgf("load config failed, err: %v", err)
		return err
	}

	if s.cfg.Mailchimp.APIKey == "" {
		log.Ctx(s.ctx).Warn().Msgf("%s is not set, subscriptions will fail", config.EnvMailchimpAPIKey)
	}

	// ===== init deps ===== //

	s.origin, err = dep.NewOrigin(s.ctx, s.cfg.Origin)
	if err != nil {
		log.Ctx(s.ctx).Error().Msgf("init origin failed, err: %v", err)
		return err
	}

	s.mailingList = dep.NewMailingList(s.ctx, s.cfg.Mailchimp)

	// ===== init handlers ===== //

	s.campaignMeta = middleware.NewCampaignMeta(s.cfg.Pages, s.cfg.CampaignTable())
	s.subscriptionHandler = handler.NewSubscriptionHandler(s.cfg.Mailchimp, s.mailingList)
	s.petitionHandler = handler.NewPetitionHandler(s.cfg.Petition, s.subscriptionHandler)

	// ===== start server ===== //

	addr := fmt.Sprintf(":%d", s.opt.Port)
	s.httpServer = &http.Server{
		BaseContext: func(_ net.Listener) context.Context {
			return s.ctx
		},
		Addr:    addr,
		Handler: middleware.Log(s.registerRoutes()),
	}

	go func() {
		log.Ctx(s.ctx).Info().Msgf("starting HTTP server at %s", addr)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Ctx(s.ctx).Fatal().Msgf("fail to start HTTP server, err: %v", err)
		}
	}()

	return nil
}

func (s *server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(s.ctx, shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("shutdown HTTP server failed, err: %v", err)
			return err
		}
	}

	if s.mailingList != nil {
		if err := s.mailingList.Close(s.ctx); err != nil {
			log.Ctx(s.ctx).Error().Msgf("close mailing list failed, err: %v", err)
			return err
		}
	}

	return nil
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct{}

func (s *server) registerRoutes() http.Handler {
	root := mux.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		OptionsPassthrough: true,
	})
	r := router.NewHttpRouter(root, c.Handler)

	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathHealthCheck,
		Method: http.MethodGet,
		Handler: router.Handler{
			Req: new(HealthCheckRequest),
			Res: new(HealthCheckResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return nil
			},
		},
	})

	// subscribe
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathMailchimp,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.SubscribeRequest),
			Res: new(handler.SubscribeResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.subscriptionHandler.Subscribe(ctx, req.(*handler.SubscribeRequest), res.(*handler.SubscribeResponse))
			},
		},
		Middlewares: []router.Middleware{
			router.StaticHeaders(handler.SubscribeCORSHeaders),
		},
	})

	// subscribe preflight
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathMailchimp,
		Method: http.MethodOptions,
		Raw:    http.HandlerFunc(handler.SubscribePreflight),
	})

	// submit_petition
	r.RegisterHttpRoute(&router.HttpRoute{
		Path:   config.PathPetition,
		Method: http.MethodPost,
		Handler: router.Handler{
			Req: new(handler.SubmitPetitionRequest),
			Res: new(handler.SubmitPetitionResponse),
			HandleFunc: func(ctx context.Context, req, res interface{}) error {
				return s.petitionHandler.SubmitPetition(ctx, req.(*handler.SubmitPetitionRequest), res.(*handler.SubmitPetitionResponse))
			},
		},
	})

	// everything else is a page
	root.PathPrefix("/").Handler(s.campaignMeta.Handle(s.origin))

	return root
}
