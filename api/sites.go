package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fuelops/atgmon/core/derive"
	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/model"
	"github.com/fuelops/atgmon/core/store"
)

func (a *API) handleSites(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.Catalog.Sites())
}

func (a *API) handleSiteStatus(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("siteId")
	site, ok := a.Catalog.SiteByID(siteID)
	if !ok {
		a.writeError(w, faults.NotFound("site %s not found", siteID))
		return
	}
	report := derive.LiveStatus(a.Events, site, a.Catalog.TanksForSite(siteID), a.Now())
	a.writeJSON(w, http.StatusOK, report)
}

func (a *API) handleSiteEvents(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("siteId")
	if _, ok := a.Catalog.SiteByID(siteID); !ok {
		a.writeError(w, faults.NotFound("site %s not found", siteID))
		return
	}
	q := store.EventQuery{SiteID: siteID, TankID: r.URL.Query().Get("tank_id")}
	if s := r.URL.Query().Get("type"); s != "" {
		typ, ok := model.ParseEventType(s)
		if !ok {
			a.writeError(w, faults.Invalid("unknown event type %q", s))
			return
		}
		q.Type = &typ
	}
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			a.writeError(w, faults.Invalid("invalid from timestamp %q", s))
			return
		}
		q.From = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			a.writeError(w, faults.Invalid("invalid to timestamp %q", s))
			return
		}
		q.To = t
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			a.writeError(w, faults.Invalid("invalid limit %q", s))
			return
		}
		q.Limit = n
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			a.writeError(w, faults.Invalid("invalid offset %q", s))
			return
		}
		q.Offset = n
	}
	a.writeJSON(w, http.StatusOK, a.Events.Query(q))
}

func (a *API) handleSalesSeries(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("siteId")
	if _, ok := a.Catalog.SiteByID(siteID); !ok {
		a.writeError(w, faults.NotFound("site %s not found", siteID))
		return
	}
	report := derive.SalesSeries(a.Events, siteID, a.Catalog.TanksForSite(siteID), a.Now())
	a.writeJSON(w, http.StatusOK, report)
}

func (a *API) handleVariance(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("siteId")
	if _, ok := a.Catalog.SiteByID(siteID); !ok {
		a.writeError(w, faults.NotFound("site %s not found", siteID))
		return
	}
	report := derive.SalesVariance(a.Events, siteID, a.Catalog.TanksForSite(siteID), a.Now())
	a.writeJSON(w, http.StatusOK, report)
}
