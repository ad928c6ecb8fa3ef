package weightlog

import "errors"

var ErrProfileNotFound = errors.New("weight profile not found")

// Profile holds the user goal settings. Both weights are optional.
type Profile struct {
	UserID          string   `json:"userId"`
	TargetWeightKg  *float64 `json:"targetWeightKg"`
	CurrentWeightKg *float64 `json:"currentWeightKg"`
}
