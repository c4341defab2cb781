// Package api exposes the monitoring core over a JSON HTTP interface.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/reconcile"
	"github.com/fuelops/atgmon/core/store"
	"github.com/fuelops/atgmon/infra/logger"
)

// API bundles the stores and engines behind the HTTP handlers.
type API struct {
	Events  *store.EventStore
	Catalog *store.Catalog
	Orders  *store.OrderLedger
	Recon   *reconcile.Engine
	Log     logger.Logger
	Now     func() time.Time
}

// New builds the API surface.
func New(events *store.EventStore, catalog *store.Catalog, orders *store.OrderLedger, recon *reconcile.Engine, log logger.Logger) *API {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &API{
		Events:  events,
		Catalog: catalog,
		Orders:  orders,
		Recon:   recon,
		Log:     log,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Routes wires every endpoint onto a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sites", a.handleSites)
	mux.HandleFunc("GET /api/sites/{siteId}/status", a.handleSiteStatus)
	mux.HandleFunc("GET /api/sites/{siteId}/events", a.handleSiteEvents)
	mux.HandleFunc("GET /api/sites/{siteId}/sales-series", a.handleSalesSeries)
	mux.HandleFunc("GET /api/sites/{siteId}/variance", a.handleVariance)
	mux.HandleFunc("GET /api/deliveries", a.handleDeliveries)
	mux.HandleFunc("POST /api/deliveries/link", a.handleLinkDelivery)
	mux.HandleFunc("GET /api/orders", a.handleListOrders)
	mux.HandleFunc("POST /api/orders", a.handleCreateOrder)
	mux.HandleFunc("POST /api/orders/{orderId}/action", a.handleOrderAction)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Log.Errorf("encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch faults.KindOf(err) {
	case faults.KindValidation:
		status = http.StatusBadRequest
	case faults.KindNotFound:
		status = http.StatusNotFound
	case faults.KindConflictingLink:
		status = http.StatusConflict
	case faults.KindInvalidTransition:
		status = http.StatusUnprocessableEntity
	}
	a.writeJSON(w, status, errorBody{Error: err.Error(), Kind: faults.KindOf(err).String()})
}
