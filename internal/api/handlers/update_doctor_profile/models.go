package update_doctor_profile

// UpdateDoctorProfileRequest HTTP request model
// Обновляются только переданные поля
type UpdateDoctorProfileRequest struct {
	Fees      *float64 `json:"fees,omitempty"`
	About     *string  `json:"about,omitempty"`
	Available *bool    `json:"available,omitempty"`
}
