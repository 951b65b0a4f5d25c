package change_availability

// ChangeAvailabilityRequest HTTP request model
type ChangeAvailabilityRequest struct {
	Available bool `json:"available"`
}
