package dto

// ListStatus reports whether a list was served from the last good snapshot after a backend failure.
type ListStatus struct {
	Stale  bool   `json:"stale"`
	Notice string `json:"notice,omitempty"`
}

// Meta renders the status into the response meta block.
func (s ListStatus) Meta() map[string]interface{} {
	if !s.Stale {
		return nil
	}
	meta := map[string]interface{}{"stale": true}
	if s.Notice != "" {
		meta["notice"] = s.Notice
	}
	return meta
}

// Mutation is returned by create, update and delete: the backend message plus the refreshed list.
type Mutation[T any] struct {
	Message string `json:"message"`
	Items   []T    `json:"items"`
}
