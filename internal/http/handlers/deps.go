package handlers

import (
	"sync"

	"backoffice/internal/auth"
	"backoffice/internal/realtime"
	"backoffice/internal/services"
	"backoffice/internal/storage"
)

// Dependencies are the process-wide collaborators handlers build services from.
type Dependencies struct {
	Hub      *realtime.Hub
	Store    storage.Store
	PNR      services.Generator
	Airports services.LocationSearcher
	Tokens   auth.Issuer
}

var (
	depsMu sync.RWMutex
	deps   Dependencies
)

func SetDependencies(d Dependencies) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Dependencies {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

// events returns the hub as a Publisher, or nil so realtime.Notify stays a no-op.
func events() realtime.Publisher {
	if h := current().Hub; h != nil {
		return h
	}
	return nil
}
