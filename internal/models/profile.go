package models

import "time"

// UserProfile holds display settings, stored independently of trades.
type UserProfile struct {
	DisplayName string
	Avatar      string
}

// WatchlistItem is a tracked ticker not necessarily traded yet.
// Insertion order is preserved for display.
type WatchlistItem struct {
	Ticker  string
	AddedAt time.Time
}
