// internal/app/features/rooms/handler.go
package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves room provisioning and lookup endpoints.
type Handler struct {
	Hostels *hostelstore.Store
	Rooms   *roomstore.Store
	Log     *zap.Logger
}

// NewHandler creates a rooms handler.
func NewHandler(hostels *hostelstore.Store, rooms *roomstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Hostels: hostels,
		Rooms:   rooms,
		Log:     logger,
	}
}

// addRoomRequest is the JSON body for the add-room endpoint.
type addRoomRequest struct {
	HostelID        string `json:"hostelId"`
	StartRoomNumber int    `json:"startRoomNumber"`
	TotalRooms      int    `json:"totalRooms"`
	Capacity        int    `json:"capacity"`
}

// ServeAddRoom handles POST /room/add-room. The whole proposed range is
// checked against existing numbers before anything is written; a single
// collision aborts the batch with zero inserts.
func (h *Handler) ServeAddRoom(w http.ResponseWriter, r *http.Request) {
	var req addRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.HostelID == "" || req.StartRoomNumber <= 0 {
		apires.Fail(w, http.StatusBadRequest, "hostelId and startRoomNumber are required")
		return
	}
	if req.TotalRooms <= 0 {
		req.TotalRooms = 1
	}

	hostelID, err := primitive.ObjectIDFromHex(req.HostelID)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	if _, err := h.Hostels.GetByID(ctx, hostelID); err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Hostel not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	existing, err := h.Rooms.ExistingNumbers(ctx, hostelID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	for i := 0; i < req.TotalRooms; i++ {
		number := strconv.Itoa(req.StartRoomNumber + i)
		if _, taken := existing[number]; taken {
			apires.Fail(w, http.StatusConflict, "Room "+number+" already exists in this hostel")
			return
		}
	}

	rooms, err := h.Rooms.CreateBatch(ctx, hostelID, req.StartRoomNumber, req.TotalRooms, req.Capacity)
	if err != nil {
		if err == roomstore.ErrDuplicateNumber {
			// Lost the race against a concurrent batch; the unique index
			// rejected it just like the pre-check would have.
			apires.Fail(w, http.StatusConflict, "A room in this range already exists in this hostel")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusCreated, map[string]any{
		"roomsCreated": len(rooms),
		"rooms":        rooms,
	}, "Rooms added successfully")
}

// ServeGetRooms handles GET /room/get-rooms/{hostelID}. Only rooms with
// space left are returned, each with its derived occupant count.
func (h *Handler) ServeGetRooms(w http.ResponseWriter, r *http.Request) {
	hostelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "hostelID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	available, err := h.Rooms.AvailableByHostel(ctx, hostelID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, available, "Available rooms fetched successfully")
}

// ServeLastRoom handles GET /room/last-room/{hostelID}. Returns the
// highest numeric room number, 0 when the hostel has none, so the admin
// UI can suggest the next batch's starting number.
func (h *Handler) ServeLastRoom(w http.ResponseWriter, r *http.Request) {
	hostelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "hostelID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	last, err := h.Rooms.LastNumber(ctx, hostelID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, map[string]int{"lastRoom": last}, "Last room number fetched successfully")
}
