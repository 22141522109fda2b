package model

// HandwashEvent is one completed wash. Events are append-only; they are
// never mutated and are removed only by a cascading family delete.
type HandwashEvent struct {
	FamilyID    string `json:"familyId"`
	EventID     string `json:"eventId"`
	AtMs        int64  `json:"atMs"`
	CreatedBy   string `json:"createdBy"`
	Mode        string `json:"mode,omitempty"`
	DurationSec int    `json:"durationSec,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ToItem converts the event to its storage representation
func (e HandwashEvent) ToItem() map[string]interface{} {
	item := map[string]interface{}{
		"pk":        FamilyPK(e.FamilyID),
		"sk":        EventSK(e.AtMs, e.EventID),
		"entity":    EntityHandwashEvent,
		"familyId":  e.FamilyID,
		"eventId":   e.EventID,
		"atMs":      e.AtMs,
		"createdBy": e.CreatedBy,
	}
	if e.Mode != "" {
		item["mode"] = e.Mode
	}
	if e.DurationSec > 0 {
		item["durationSec"] = e.DurationSec
	}
	if e.Note != "" {
		item["note"] = e.Note
	}
	return item
}

// HandwashEventFromItem rebuilds an event from its storage representation
func HandwashEventFromItem(item map[string]interface{}) HandwashEvent {
	return HandwashEvent{
		FamilyID:    itemString(item, "familyId"),
		EventID:     itemString(item, "eventId"),
		AtMs:        itemInt64(item, "atMs"),
		CreatedBy:   itemString(item, "createdBy"),
		Mode:        itemString(item, "mode"),
		DurationSec: int(itemInt64(item, "durationSec")),
		Note:        itemString(item, "note"),
	}
}
