package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hallms-backend/internal/config"
	"hallms-backend/internal/security"
	"hallms-backend/internal/service"
)

// Services bundles everything the router exposes over REST.
type Services struct {
	Auth         service.AuthService
	Halls        service.HallService
	Rooms        service.RoomService
	Allocations  service.AllocationService
	Waitlist     service.WaitlistService
	Renewals     service.RenewalService
	Notification service.NotificationService
}

// NewRouter builds the full route table. All hall resources sit behind
// bearer auth; mutating seat operations additionally require the admin role.
func NewRouter(svcs Services, tokens security.TokenManager, cfg config.HTTPConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(RateLimit(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst))

	authH := NewAuthHandler(svcs.Auth)
	hallH := NewHallHandler(svcs.Halls)
	roomH := NewRoomHandler(svcs.Rooms)
	allocH := NewAllocationHandler(svcs.Allocations)
	waitH := NewWaitlistHandler(svcs.Waitlist)
	renewH := NewRenewalHandler(svcs.Renewals)
	noteH := NewNotificationHandler(svcs.Notification)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	readCache := cache.New(ttl, 2*ttl)

	// Authenticated surface.
	authed := api.NewRoute().Subrouter()
	authed.Use(Authenticate(tokens))

	authed.HandleFunc("/halls", hallH.List).Methods(http.MethodGet)
	authed.HandleFunc("/halls/mine", hallH.Mine).Methods(http.MethodGet)
	authed.Handle("/rooms", CacheReads(readCache, ttl)(http.HandlerFunc(roomH.List))).Methods(http.MethodGet)
	authed.HandleFunc("/rooms/{id}", roomH.Get).Methods(http.MethodGet)
	authed.HandleFunc("/renewals/mine", renewH.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/renewals", renewH.Submit).Methods(http.MethodPost)
	authed.HandleFunc("/notifications", noteH.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", noteH.MarkAsRead).Methods(http.MethodPost)

	// Admin surface.
	admin := authed.NewRoute().Subrouter()
	admin.Use(RequireAdmin)

	admin.HandleFunc("/halls", hallH.Create).Methods(http.MethodPost)

	admin.HandleFunc("/rooms", roomH.Create).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id}", roomH.Update).Methods(http.MethodPut)
	admin.HandleFunc("/rooms/{id}", roomH.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/allocations", allocH.List).Methods(http.MethodGet)
	admin.HandleFunc("/allocations/{id}", allocH.Get).Methods(http.MethodGet)
	admin.HandleFunc("/allocations", allocH.Assign).Methods(http.MethodPost)
	admin.HandleFunc("/allocations/manual", allocH.ManualAssign).Methods(http.MethodPost)
	admin.HandleFunc("/allocations/{id}/move", allocH.Move).Methods(http.MethodPost)
	admin.HandleFunc("/allocations/{id}/vacate", allocH.Vacate).Methods(http.MethodPost)

	admin.HandleFunc("/waitlist", waitH.List).Methods(http.MethodGet)
	admin.HandleFunc("/waitlist", waitH.Enqueue).Methods(http.MethodPost)
	admin.HandleFunc("/waitlist/remove", waitH.Remove).Methods(http.MethodPost)
	admin.HandleFunc("/waitlist/{id}/promote", waitH.Promote).Methods(http.MethodPost)

	admin.HandleFunc("/renewals", renewH.ListByHall).Methods(http.MethodGet)
	admin.HandleFunc("/renewals/{id}/decide", renewH.Decide).Methods(http.MethodPost)

	return r
}
