package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aisrx/internal/config"
	"aisrx/internal/forward"
	"aisrx/internal/metrics"
	"aisrx/internal/receiver"
	"aisrx/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./aisrx.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	met := metrics.New()
	recent := web.NewMessageRing(100)

	var sender *forward.Sender
	if cfg.Forward.Enable {
		sender, err = forward.NewSender(cfg.Forward.Dest)
		if err != nil {
			log.Fatalf("forwarder init failed: %v", err)
		}
		defer sender.Close()
	}

	sink := func(msg receiver.Message) {
		recent.Add(msg)
		if sender != nil {
			if err := sender.Send(msg); err != nil {
				log.Printf("forward send: %v", err)
			}
		}
	}

	svc := receiver.New(receiver.Config{
		Source: cfg.Input.Source,
		Device: cfg.Input.Device,
		Baud:   cfg.Input.Baud,
		Addr:   cfg.Input.Addr,
		Path:   cfg.Input.Path,
	}, *cfg.Reassembly.SeqLimit, met, sink)

	log.Printf("aisrx starting")
	log.Printf("input source=%s seq_limit=%d", cfg.Input.Source, *cfg.Reassembly.SeqLimit)

	if err := svc.Start(ctx); err != nil {
		log.Fatalf("receiver start failed: %v", err)
	}
	defer svc.Stop()

	if cfg.Web.Listen != "" {
		srv := &http.Server{Addr: cfg.Web.Listen, Handler: web.Handler(svc, recent)}
		go func() {
			log.Printf("web listening on %s", cfg.Web.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
		defer srv.Close()
	}

	<-ctx.Done()
	log.Printf("aisrx stopping")
}
