package api

import (
	"encoding/json"
	"net/http"

	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/reconcile"
)

func (a *API) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	records := a.Recon.DeliveryRecords(r.URL.Query().Get("site_id"))
	a.writeJSON(w, http.StatusOK, records)
}

type linkResponse struct {
	OK          bool   `json:"ok"`
	OrderNumber string `json:"orderNumber"`
}

func (a *API) handleLinkDelivery(w http.ResponseWriter, r *http.Request) {
	var req reconcile.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, faults.Invalid("invalid request body: %v", err))
		return
	}
	orderNumber, err := a.Recon.LinkDelivery(req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, linkResponse{OK: true, OrderNumber: orderNumber})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.Orders.List(r.URL.Query().Get("site_id")))
}

type createOrderRequest struct {
	SiteID   string                       `json:"siteId"`
	JobberID string                       `json:"jobberId,omitempty"`
	Lines    []reconcile.OrderLineRequest `json:"lines"`
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, faults.Invalid("invalid request body: %v", err))
		return
	}
	order, err := a.Recon.CreateOrder(req.SiteID, req.JobberID, req.Lines)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, order)
}

type orderActionRequest struct {
	Action   string `json:"action"`
	PONumber string `json:"poNumber,omitempty"`
}

func (a *API) handleOrderAction(w http.ResponseWriter, r *http.Request) {
	var req orderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, faults.Invalid("invalid request body: %v", err))
		return
	}
	if req.Action == "" {
		a.writeError(w, faults.Invalid("action is required"))
		return
	}
	order, err := a.Recon.ApplyOrderStatus(r.PathValue("orderId"), req.Action, req.PONumber, "User")
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, order)
}
