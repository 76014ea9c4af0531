package model

// HistoryEntry is one recently generated password.
// Time is milliseconds since the Unix epoch.
type HistoryEntry struct {
	Value string `json:"value"`
	Time  int64  `json:"time"`
}

// HistoryResponse lists recent passwords, newest first.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryEvent is pushed to websocket subscribers when a session's history changes.
type HistoryEvent struct {
	Type    string         `json:"type"`
	Entries []HistoryEntry `json:"entries"`
}
