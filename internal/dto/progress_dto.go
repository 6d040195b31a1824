package dto

type RecordSignalRequest struct {
	Signal string  `json:"signal" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0"`
}

type ProgressResponse struct {
	Progress int                `json:"progress"`
	Status   string             `json:"status"`
	Signals  map[string]float64 `json:"signals"`
}

type OpenReaderResponse struct {
	SessionId string   `json:"sessionId"`
	Pages     []string `json:"pages"`
	Total     int      `json:"total"`
}

// TurnPageRequest reports one page visit. DwellMs is how long the reader
// stayed on the page before navigating away.
type TurnPageRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Page      int    `json:"page" validate:"gte=0"`
	DwellMs   int64  `json:"dwellMs" validate:"gte=0"`
}

type TurnPageResponse struct {
	Viewed      bool   `json:"viewed"`
	ViewedCount int    `json:"viewedCount"`
	Total       int    `json:"total"`
	Progress    int    `json:"progress"`
	Status      string `json:"status"`
}
