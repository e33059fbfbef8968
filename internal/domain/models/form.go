package models

import "time"

// Text field names accepted by the wizard.
const (
	FieldFullName     = "fullName"
	FieldPhoneNumber  = "phoneNumber"
	FieldAddress      = "address"
	FieldDateOfBirth  = "dateOfBirth"
	FieldVehicleMake  = "vehicleMake"
	FieldVehicleModel = "vehicleModel"
	FieldVehicleYear  = "vehicleYear"
	FieldVehicleColor = "vehicleColor"
	FieldLicensePlate = "licensePlate"
)

// DocumentSlot names one of the four required uploads.
type DocumentSlot string

const (
	SlotDriversLicense      DocumentSlot = "driversLicense"
	SlotVehicleRegistration DocumentSlot = "vehicleRegistration"
	SlotInsurance           DocumentSlot = "insurance"
	SlotProfilePhoto        DocumentSlot = "profilePhoto"
)

func DocumentSlots() []DocumentSlot {
	return []DocumentSlot{SlotDriversLicense, SlotVehicleRegistration, SlotInsurance, SlotProfilePhoto}
}

func (s DocumentSlot) Valid() bool {
	switch s {
	case SlotDriversLicense, SlotVehicleRegistration, SlotInsurance, SlotProfilePhoto:
		return true
	default:
		return false
	}
}

// Label is the human readable name used on the review page.
func (s DocumentSlot) Label() string {
	switch s {
	case SlotDriversLicense:
		return "Driver's License"
	case SlotVehicleRegistration:
		return "Vehicle Registration"
	case SlotInsurance:
		return "Insurance Certificate"
	case SlotProfilePhoto:
		return "Profile Photo"
	default:
		return string(s)
	}
}

// The field tag carries the wizard name reported for a missing value.
type PersonalInfoFields struct {
	FullName    string `json:"fullName" field:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" field:"phoneNumber" validate:"required"`
	Address     string `json:"address" field:"address" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" field:"dateOfBirth" validate:"required"`
}

type VehicleInfoFields struct {
	Make         string `json:"make" field:"vehicleMake" validate:"required"`
	Model        string `json:"model" field:"vehicleModel" validate:"required"`
	Year         string `json:"year" field:"vehicleYear" validate:"required"`
	Color        string `json:"color" field:"vehicleColor" validate:"required"`
	LicensePlate string `json:"licensePlate" field:"licensePlate" validate:"required"`
}

// DocumentRef is a handle to an uploaded file kept by the document storage.
type DocumentRef struct {
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Path        string    `json:"path"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type DocumentFields struct {
	DriversLicense      *DocumentRef `json:"driversLicense" field:"driversLicense" validate:"required"`
	VehicleRegistration *DocumentRef `json:"vehicleRegistration" field:"vehicleRegistration" validate:"required"`
	Insurance           *DocumentRef `json:"insurance" field:"insurance" validate:"required"`
	ProfilePhoto        *DocumentRef `json:"profilePhoto" field:"profilePhoto" validate:"required"`
}

// Get returns the document held in slot, nil when empty.
func (d DocumentFields) Get(slot DocumentSlot) *DocumentRef {
	switch slot {
	case SlotDriversLicense:
		return d.DriversLicense
	case SlotVehicleRegistration:
		return d.VehicleRegistration
	case SlotInsurance:
		return d.Insurance
	case SlotProfilePhoto:
		return d.ProfilePhoto
	default:
		return nil
	}
}

// Set stores ref (possibly nil) into slot. Unknown slots are ignored.
func (d *DocumentFields) Set(slot DocumentSlot, ref *DocumentRef) {
	switch slot {
	case SlotDriversLicense:
		d.DriversLicense = ref
	case SlotVehicleRegistration:
		d.VehicleRegistration = ref
	case SlotInsurance:
		d.Insurance = ref
	case SlotProfilePhoto:
		d.ProfilePhoto = ref
	}
}

// FormData holds the wizard input, one section per data-entry step.
type FormData struct {
	Personal  PersonalInfoFields `json:"personal"`
	Vehicle   VehicleInfoFields  `json:"vehicle"`
	Documents DocumentFields     `json:"documents"`
}

// FieldStep reports which step owns a text field.
func FieldStep(name string) (StepIndex, bool) {
	switch name {
	case FieldFullName, FieldPhoneNumber, FieldAddress, FieldDateOfBirth:
		return StepPersonal, true
	case FieldVehicleMake, FieldVehicleModel, FieldVehicleYear, FieldVehicleColor, FieldLicensePlate:
		return StepVehicle, true
	default:
		return 0, false
	}
}

// SetField assigns a text field by its wizard name and reports whether the
// name was known.
func (f *FormData) SetField(name, value string) bool {
	switch name {
	case FieldFullName:
		f.Personal.FullName = value
	case FieldPhoneNumber:
		f.Personal.PhoneNumber = value
	case FieldAddress:
		f.Personal.Address = value
	case FieldDateOfBirth:
		f.Personal.DateOfBirth = value
	case FieldVehicleMake:
		f.Vehicle.Make = value
	case FieldVehicleModel:
		f.Vehicle.Model = value
	case FieldVehicleYear:
		f.Vehicle.Year = value
	case FieldVehicleColor:
		f.Vehicle.Color = value
	case FieldLicensePlate:
		f.Vehicle.LicensePlate = value
	default:
		return false
	}
	return true
}

// Section returns the part of the form validated at step, or nil for the
// review step which has no input of its own.
func (f FormData) Section(step StepIndex) any {
	switch step {
	case StepPersonal:
		return f.Personal
	case StepVehicle:
		return f.Vehicle
	case StepDocuments:
		return f.Documents
	default:
		return nil
	}
}
