package sse

import (
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
)

// AnomalyFeed pushes freshly detected anomalies onto the hub so connected
// administrators see them without polling.
type AnomalyFeed struct {
	hub *Hub
}

func NewAnomalyFeed(hub *Hub) *AnomalyFeed {
	return &AnomalyFeed{hub: hub}
}

// PublishAnomaly broadcasts one anomaly as an "anomaly.created" event.
func (f *AnomalyFeed) PublishAnomaly(a anomaly.Anomaly) {
	f.hub.Broadcast(Event{
		Event: "anomaly.created",
		Data: map[string]interface{}{
			"id":          a.ID,
			"employee_id": a.EmployeeID,
			"work_day":    a.WorkDay.Format("2006-01-02"),
			"type":        a.Type,
			"severity":    a.Severity,
			"status":      a.Status,
			"description": a.Description,
		},
	})
}
