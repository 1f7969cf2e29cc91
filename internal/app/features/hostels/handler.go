// internal/app/features/hostels/handler.go
package hostels

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"go.uber.org/zap"
)

const defaultStartRoomNumber = 101

// Handler serves hostel provisioning and lookup endpoints.
type Handler struct {
	Hostels *hostelstore.Store
	Rooms   *roomstore.Store
	Log     *zap.Logger
}

// NewHandler creates a hostels handler.
func NewHandler(hostels *hostelstore.Store, rooms *roomstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Hostels: hostels,
		Rooms:   rooms,
		Log:     logger,
	}
}

// addHostelRequest is the JSON body for the add-hostel endpoint.
type addHostelRequest struct {
	Name            string `json:"name"`
	Code            string `json:"code"`
	TotalRooms      int    `json:"totalRooms"`
	StartRoomNumber int    `json:"startRoomNumber"`
	Capacity        int    `json:"capacity"`
}

// ServeAddHostel handles POST /hostel/add-hostel. Creates the hostel and
// batch-provisions its rooms in one call. If the room batch fails after
// the hostel insert, the hostel is deleted again so no empty hostel is
// left behind.
func (h *Handler) ServeAddHostel(w http.ResponseWriter, r *http.Request) {
	var req addHostelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" || req.TotalRooms <= 0 {
		apires.Fail(w, http.StatusBadRequest, "name, code, and totalRooms are required")
		return
	}
	if req.StartRoomNumber <= 0 {
		req.StartRoomNumber = defaultStartRoomNumber
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	exists, err := h.Hostels.ExistsByCode(ctx, req.Code)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if exists {
		apires.Fail(w, http.StatusConflict, "A hostel with this code already exists")
		return
	}

	hostel, err := h.Hostels.Create(ctx, models.Hostel{Name: req.Name, Code: req.Code})
	if err != nil {
		if err == hostelstore.ErrDuplicateCode {
			apires.Fail(w, http.StatusConflict, "A hostel with this code already exists")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	rooms, err := h.Rooms.CreateBatch(ctx, hostel.ID, req.StartRoomNumber, req.TotalRooms, req.Capacity)
	if err != nil {
		// Compensate: remove the hostel so provisioning is all-or-nothing.
		// There is a short window where the hostel is visible without
		// rooms; callers treat the eventual 500 as "nothing happened".
		// The delete gets its own deadline: when the batch died to a
		// context timeout, the request context is unusable for cleanup.
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cleanupCancel()
		if _, delErr := h.Hostels.Delete(cleanupCtx, hostel.ID); delErr != nil {
			h.Log.Error("add-hostel: compensation delete failed",
				zap.Error(delErr),
				zap.String("hostel_id", hostel.ID.Hex()))
		}
		h.Log.Error("add-hostel: room batch failed", zap.Error(err),
			zap.String("hostel_id", hostel.ID.Hex()))
		apires.Fail(w, http.StatusInternalServerError, "Failed to provision rooms for the hostel")
		return
	}

	apires.OK(w, http.StatusCreated, map[string]any{
		"hostel":       hostel,
		"roomsCreated": len(rooms),
	}, "Hostel created successfully")
}

// ServeGetAllHostels handles GET /hostel/get-all-hostels.
func (h *Handler) ServeGetAllHostels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hostels, err := h.Hostels.GetAll(ctx)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	type hostelItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}
	items := make([]hostelItem, 0, len(hostels))
	for _, hostel := range hostels {
		items = append(items, hostelItem{ID: hostel.ID.Hex(), Name: hostel.Name, Code: hostel.Code})
	}

	apires.OK(w, http.StatusOK, items, "Hostels fetched successfully")
}

// ServeHostelCount handles GET /hostel/hostel-count. Public: it feeds the
// landing-page statistic.
func (h *Handler) ServeHostelCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.Hostels.Count(ctx)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, map[string]int64{"count": count}, "Hostel count fetched successfully")
}
