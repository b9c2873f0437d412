package commands

import (
	"encoding/json"
	"time"

	"admiral/contexts/community-governance/resolution-engine/ports"
)

func newResolutionEnvelope(
	eventID string,
	eventType string,
	resolutionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Events are partitioned by resolution for stable ordering on
	// resolution-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "resolution-engine",
		SchemaVersion: 1,
		PartitionKey:  resolutionID,
		Data:          payload,
	}, nil
}
