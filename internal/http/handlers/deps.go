package handlers

import (
	"database/sql"
	"sync"

	intconfig "speed-backend/internal/config"
	"speed-backend/internal/http/middleware"
	"speed-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Env       intconfig.Env
	DB        *sql.DB
	Store     services.VerificationStore
	Users     services.AccountStore
	Roster    services.Roster
	Notifier  services.Notifier
	Tracker   services.Tracker
	Documents services.DocumentStore
}

var (
	depsMu sync.RWMutex
	deps   Dependencies
)

// SetDependencies installs the collaborators used by the handlers.
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

func authService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{
		Users:     d.Users,
		Secret:    []byte(d.Env.JWTSecret),
		RequestID: middleware.GetRequestID(c),
	}
}

func verificationService(c *gin.Context) services.VerificationService {
	d := current()
	return services.VerificationService{
		Store:       d.Store,
		Users:       d.Users,
		Notifier:    d.Notifier,
		Documents:   d.Documents,
		SubmitDelay: d.Env.SubmitDelay,
		RequestID:   middleware.GetRequestID(c),
	}
}

func availabilityService(c *gin.Context) services.AvailabilityService {
	d := current()
	return services.AvailabilityService{
		Statuses:  d.Store,
		Roster:    d.Roster,
		Notifier:  d.Notifier,
		Tracker:   d.Tracker,
		RequestID: middleware.GetRequestID(c),
	}
}
