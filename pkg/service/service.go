package service

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Init() error
	Start() error
	Stop() error
}

// Run starts s and blocks until the process is asked to terminate.
func Run(s Service) error {
	if err := s.Init(); err != nil {
		return err
	}

	if err := s.Start(); err != nil {
		return err
	}

	return wait(s, termSignals())
}

func termSignals() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

func wait(s Service, sigCh <-chan os.Signal) error {
	sig := <-sigCh
	log.Info().Msgf("received signal %v, stopping service", sig)

	return s.Stop()
}
