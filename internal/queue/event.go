// Package queue defines message payloads exchanged over the message broker.
package queue

// MapSavedEvent is published whenever a seating map is persisted, whether
// by the autosave debouncer or an explicit save. It carries enough for
// downstream consumers (audit log, search indexing, web publishing) to act
// without querying the primary database.
type MapSavedEvent struct {
    MapID        string `json:"map_id"`
    SalaID       string `json:"sala_id"`
    Nombre       string `json:"nombre"`
    Estado       string `json:"estado"`
    ElementCount int    `json:"element_count"`
    ZoneCount    int    `json:"zone_count"`
    ActorID      string `json:"actor_id"`
    SavedAt      string `json:"saved_at"`
}
