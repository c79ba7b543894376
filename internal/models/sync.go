package models

// PullResponse is the body of GET /sync/pull. ServerTime is the remote
// authority's clock at response time; watermarks only ever advance to
// server-reported times, never to a locally generated timestamp.
type PullResponse struct {
	Challenges []Challenge `json:"challenges"`
	Entries    []DayEntry  `json:"entries"`
	ServerTime string      `json:"serverTime"`
}

// PushRequest is the body of POST /sync/push.
type PushRequest struct {
	Challenges []Challenge `json:"challenges"`
	Entries    []DayEntry  `json:"entries"`
	LastSyncAt *string     `json:"lastSyncAt"`
}

// PushResponse is the reply to POST /sync/push.
type PushResponse struct {
	Success  bool   `json:"success"`
	SyncedAt string `json:"syncedAt"`
}
