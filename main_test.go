package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"backoffice/internal/http/handlers"
	"backoffice/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownEndsOpenStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub(4)
	handlers.SetDependencies(handlers.Dependencies{Hub: hub})
	defer handlers.SetDependencies(handlers.Dependencies{})

	r := gin.New()
	r.GET("/api/realtime/:table", handlers.StreamChanges)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := newServer(ln.Addr().String(), r, hub)
	go func() { _ = srv.Serve(ln) }()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/realtime/agencies")
		if err == nil {
			resp.Body.Close()
		}
	}()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
	assert.Equal(t, 0, hub.Subscribers())
}
