package dto

// RescanDTO used for POST /api/library/rescan. Force defaults to true:
// an explicit rescan request should not be answered from a stale cache.
type RescanDTO struct {
	Force *bool `json:"force,omitempty"`
}

func (d RescanDTO) ForceOrDefault() bool {
	if d.Force == nil {
		return true
	}
	return *d.Force
}
