package snapshot

import "github.com/pietervz/ipfire-tray/internal/domain"

type ThroughputStore struct {
	Store[domain.ThroughputSnapshot]
}

func NewThroughputStore() *ThroughputStore {
	return &ThroughputStore{}
}
