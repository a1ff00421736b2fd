package handler

import "time"

// Envelope is the success body shared by prediction endpoints.
type Envelope struct {
	Success    bool   `json:"success"`
	Timestamp  string `json:"timestamp"`
	Prediction any    `json:"prediction"`
}

func newEnvelope(now time.Time, prediction any) Envelope {
	return Envelope{
		Success:    true,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Prediction: prediction,
	}
}
