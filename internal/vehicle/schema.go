package vehicle

import (
	"strconv"

	"github.com/evcraddock/garage/internal/record"
)

// Field names.
const (
	FieldVIN              = "vin"
	FieldLicensePlate     = "licensePlate"
	FieldEngineType       = "engineType"
	FieldTransmission     = "transmission"
	FieldManufacturedYear = "manufacturedYear"
	FieldManufacturer     = "manufacturer"
	FieldModelName        = "modelName"
	FieldCarSegment       = "carSegment"
)

var schema = record.NewSchema("vehicle", nil, func(v Vehicle) int64 { return v.VehicleID },
	stringField(FieldVIN, "VIN", ValidateVIN,
		func(v Vehicle) string { return v.VIN },
		func(v *Vehicle, s string) { v.VIN = s }),
	stringField(FieldLicensePlate, "License plate", ValidateLicensePlate,
		func(v Vehicle) string { return v.LicensePlate },
		func(v *Vehicle, s string) { v.LicensePlate = s }),
	stringField(FieldEngineType, "Engine type", ValidateEngineType,
		func(v Vehicle) string { return string(v.EngineType) },
		func(v *Vehicle, s string) { v.EngineType = EngineType(s) }),
	stringField(FieldTransmission, "Transmission", ValidateTransmission,
		func(v Vehicle) string { return string(v.Transmission) },
		func(v *Vehicle, s string) { v.Transmission = Transmission(s) }),
	record.Field[Vehicle]{
		Name:     FieldManufacturedYear,
		Label:    "Year",
		Required: true,
		Validate: ValidateManufacturedYear,
		Get: func(v Vehicle) string {
			if v.ManufacturedYear == 0 {
				return ""
			}
			return strconv.Itoa(v.ManufacturedYear)
		},
		Set: func(v *Vehicle, s string) error {
			n, err := record.ParseInt(s)
			if err != nil {
				return err
			}
			v.ManufacturedYear = int(n)
			return nil
		},
	},
	stringField(FieldManufacturer, "Manufacturer", ValidateManufacturer,
		func(v Vehicle) string { return v.Manufacturer },
		func(v *Vehicle, s string) { v.Manufacturer = s }),
	stringField(FieldModelName, "Model", ValidateModelName,
		func(v Vehicle) string { return v.ModelName },
		func(v *Vehicle, s string) { v.ModelName = s }),
	stringField(FieldCarSegment, "Car segment", ValidateCarSegment,
		func(v Vehicle) string { return v.CarSegment },
		func(v *Vehicle, s string) { v.CarSegment = s }),
).WithOwner(
	func(v Vehicle) int64 { return v.UserID },
	func(v *Vehicle, id int64) { v.UserID = id },
)

// Schema returns the editable-record schema for vehicles. Every field is
// required when registering, as is the owning customer.
func Schema() *record.Schema[Vehicle] { return schema }

func stringField(name, label string, validate func(string) string, get func(Vehicle) string, set func(*Vehicle, string)) record.Field[Vehicle] {
	return record.Field[Vehicle]{
		Name:     name,
		Label:    label,
		Required: true,
		Validate: validate,
		Get:      get,
		Set: func(v *Vehicle, s string) error {
			set(v, s)
			return nil
		},
	}
}
