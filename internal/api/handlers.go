package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
)

// roomStatus is the API representation of one room: its static
// configuration plus the decision from the most recent cycle, if any.
type roomStatus struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TargetTempDay   float64 `json:"target_temp_day,omitempty"`
	TargetTempNight float64 `json:"target_temp_night,omitempty"`
	ACHeating       bool    `json:"ac_heating"`
	ACCooling       bool    `json:"ac_cooling"`
	FloorHeating    bool    `json:"floor_heating"`

	Decision *climate.RoomDecision `json:"decision,omitempty"`
}

// powerStatus reports the energy and water conditions from the most
// recent cycle. Pointer fields are null when the underlying sensor
// reading was missing or stale.
type powerStatus struct {
	SolarExcessWatts *float64  `json:"solar_excess_watts"`
	BatterySOC       *float64  `json:"battery_soc"`
	OutdoorTemp      *float64  `json:"outdoor_temp"`
	WaterTempTarget  float64   `json:"water_temp_target"`
	WaterTempActual  *float64  `json:"water_temp_actual"`
	HomeOccupied     bool      `json:"home_occupied"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// handleListRooms returns every configured room with its latest decision.
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	plan, havePlan := s.status.LastPlan()

	rooms := s.status.Rooms()
	out := make([]roomStatus, 0, len(rooms))
	for i := range rooms {
		out = append(out, buildRoomStatus(&rooms[i], plan, havePlan))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": out,
		"count": len(out),
	})
}

// handleGetRoom returns a single room by ID.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, room := range s.status.Rooms() {
		if room.ID != id {
			continue
		}
		plan, havePlan := s.status.LastPlan()
		writeJSON(w, http.StatusOK, buildRoomStatus(&room, plan, havePlan))
		return
	}

	writeNotFound(w, "room not found: "+id)
}

// handleGetPlan returns the full actuation plan from the latest cycle.
func (s *Server) handleGetPlan(w http.ResponseWriter, _ *http.Request) {
	plan, ok := s.status.LastPlan()
	if !ok {
		writeNotFound(w, "no evaluation cycle has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// handleGetPower returns energy and water heater conditions.
func (s *Server) handleGetPower(w http.ResponseWriter, _ *http.Request) {
	gs, ok := s.status.LastGlobal()
	if !ok {
		writeNotFound(w, "no evaluation cycle has completed yet")
		return
	}
	plan, _ := s.status.LastPlan()

	writeJSON(w, http.StatusOK, powerStatus{
		SolarExcessWatts: gs.SolarExcess,
		BatterySOC:       gs.BatterySOC,
		OutdoorTemp:      gs.OutdoorTemp,
		WaterTempTarget:  plan.WaterTemp,
		WaterTempActual:  gs.WaterTemp,
		HomeOccupied:     gs.HomeOccupied,
		GeneratedAt:      plan.GeneratedAt,
	})
}

func buildRoomStatus(cfg *config.RoomConfig, plan climate.ActuationPlan, havePlan bool) roomStatus {
	rs := roomStatus{
		ID:              cfg.ID,
		Name:            cfg.Name,
		TargetTempDay:   cfg.TargetTempDay,
		TargetTempNight: cfg.TargetTempNight,
		ACHeating:       cfg.ACHeatingAvailable,
		ACCooling:       cfg.ACCoolingAvailable,
		FloorHeating:    cfg.FloorHeatingAvailable,
	}
	if havePlan {
		if d, ok := plan.Rooms[cfg.ID]; ok {
			rs.Decision = &d
		}
	}
	return rs
}
