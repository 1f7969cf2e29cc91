// internal/app/features/students/handler.go
package students

import (
	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	profilestore "github.com/am1456/hostelhub/internal/app/store/profiles"
	"go.uber.org/zap"
)

// Handler serves the student's own complaints and profile.
type Handler struct {
	Complaints *complaintstore.Store
	Profiles   *profilestore.Store
	Log        *zap.Logger
}

// NewHandler creates a students handler.
func NewHandler(complaints *complaintstore.Store, profiles *profilestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Complaints: complaints,
		Profiles:   profiles,
		Log:        logger,
	}
}
