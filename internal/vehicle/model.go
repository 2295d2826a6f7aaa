// Package vehicle provides the vehicle domain model, its editable-record
// schema, the model catalog cascade, and data access for the development backend.
package vehicle

// EngineType is the vehicle's power source.
type EngineType string

const (
	Petrol   EngineType = "Petrol"
	Diesel   EngineType = "Diesel"
	Hybrid   EngineType = "Hybrid"
	Electric EngineType = "Electric"
	LPG      EngineType = "LPG"
)

// EngineTypes is the set of allowed engine types.
var EngineTypes = []EngineType{Petrol, Diesel, Hybrid, Electric, LPG}

// Transmission is the vehicle's gearbox kind.
type Transmission string

const (
	Manual        Transmission = "Manual"
	Automatic     Transmission = "Automatic"
	SemiAutomatic Transmission = "Semi-automatic"
)

// Transmissions is the set of allowed transmissions.
var Transmissions = []Transmission{Manual, Automatic, SemiAutomatic}

// Vehicle is a customer's vehicle as exchanged with the backend.
type Vehicle struct {
	VehicleID        int64        `json:"vehicleId,omitempty"`
	VIN              string       `json:"vin"`
	LicensePlate     string       `json:"licensePlate"`
	EngineType       EngineType   `json:"engineType"`
	Transmission     Transmission `json:"transmission"`
	ManufacturedYear int          `json:"manufacturedYear"`
	Manufacturer     string       `json:"manufacturer"`
	ModelName        string       `json:"modelName"`
	ModelID          int64        `json:"modelId,omitempty"`
	CarSegment       string       `json:"carSegment"`

	// Owner, joined from the customer record.
	UserID      int64  `json:"userId,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// Model is one entry of the vehicle model catalog.
type Model struct {
	ModelID      int64  `json:"modelId"`
	Manufacturer string `json:"manufacturer"`
	ModelName    string `json:"modelName"`
	CarSegment   string `json:"carSegment"`
}
