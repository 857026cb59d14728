package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/geoffjay/switchboard/internal/config"
	"github.com/geoffjay/switchboard/internal/engine"
	plog "github.com/geoffjay/switchboard/internal/log"
	"github.com/geoffjay/switchboard/internal/transport"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the switchboard broker",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	plog.Initialize(cfg.Log)

	sock, err := transport.Bind(cfg.Bind.Endpoint)
	if err != nil {
		log.WithFields(log.Fields{"endpoint": cfg.Bind.Endpoint, "error": err}).Fatal("failed to bind broker socket")
	}
	defer sock.Close()

	broker := engine.NewBroker(sock, cfg.Task.Timeout)

	fields := log.Fields{"endpoint": cfg.Bind.Endpoint, "task_timeout": cfg.Task.Timeout}
	log.WithFields(fields).Info("switchboard broker starting")

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- broker.Run(stop)
	}()

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-termChan:
		log.WithFields(fields).Info("shutdown signal received")
		close(stop)
		return <-done
	case err := <-done:
		return err
	}
}
