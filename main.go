package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/auth"
	intconfig "backoffice/internal/config"
	router "backoffice/internal/http"
	"backoffice/internal/http/handlers"
	"backoffice/internal/integrations/amadeus"
	"backoffice/internal/integrations/gemini"
	"backoffice/internal/realtime"
	"backoffice/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	hub := realtime.NewHub(32)
	defer hub.Close()
	if env.AMQPURL != "" {
		sink, err := realtime.NewAMQPSink(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			log.Printf("amqp disabled: %v", err)
		} else {
			hub.AddSink(sink)
			defer sink.Close()
		}
	}

	store, err := storage.NewFileStore(env.StorageDir, env.StoragePublicURL)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	tokens := auth.NewIssuer(env.JWTSecret)
	deps := handlers.Dependencies{Hub: hub, Store: store, Tokens: tokens}

	amadeusCfg := amadeus.Config{
		BaseURL:      env.AmadeusBaseURL,
		ClientID:     env.AmadeusClientID,
		ClientSecret: env.AmadeusClientSecret,
	}
	if amadeusCfg.Enabled() {
		deps.Airports = amadeus.NewClient(amadeusCfg)
	} else {
		log.Println("amadeus credentials not set; airport search uses the database")
	}

	gemCfg := gemini.Config{APIKey: env.GeminiAPIKey, Model: env.GeminiModel}
	if gemCfg.Enabled() {
		gen, err := gemini.NewClient(context.Background(), gemCfg)
		if err != nil {
			log.Printf("gemini disabled: %v", err)
		} else {
			deps.PNR = gen
		}
	} else {
		log.Println("GEMINI_API_KEY not set; PNR parsing is disabled")
	}

	handlers.SetDependencies(deps)

	r := router.NewRouter(env, tokens)

	srv := newServer(env.AppAddr, r, hub)

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown failed: %v", err)
		return
	}

	log.Println("server stopped")
}

// newServer builds the HTTP server. Open SSE streams end when shutdown starts.
func newServer(addr string, h http.Handler, hub *realtime.Hub) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// PNR parsing waits on the model; SSE streams clear their own deadline.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if hub != nil {
		srv.RegisterOnShutdown(hub.Close)
	}
	return srv
}
