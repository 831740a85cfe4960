package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine is a single prescribed medicine embedded in a medical record.
type Medicine struct {
	ID                 string `json:"id" bson:"id"`
	Name               string `json:"name" bson:"name"`
	Quantity           int    `json:"quantity" bson:"quantity"`
	TimeOfIntake       string `json:"timeOfIntake" bson:"timeOfIntake"`
	BeforeOrAfterMeals string `json:"beforeOrAfterMeals" bson:"beforeOrAfterMeals"`
}

// MedicalRecord represents one prescription owned by a single user. Ownership
// is set on creation and never changes.
type MedicalRecord struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	SerialNo         int                `json:"serialNo" bson:"serialNo"`
	PatientName      string             `json:"patientName,omitempty" bson:"patientName,omitempty"`
	Age              int                `json:"age,omitempty" bson:"age,omitempty"`
	Weight           float64            `json:"weight,omitempty" bson:"weight,omitempty"`
	Height           float64            `json:"height,omitempty" bson:"height,omitempty"`
	Temperature      float64            `json:"temperature,omitempty" bson:"temperature,omitempty"`
	HospitalName     string             `json:"hospitalName,omitempty" bson:"hospitalName,omitempty"`
	DoctorName       string             `json:"doctorName,omitempty" bson:"doctorName,omitempty"`
	Date             string             `json:"date,omitempty" bson:"date,omitempty"` // YYYY-MM-DD
	Medicines        []Medicine         `json:"medicines" bson:"medicines"`
	ReportImages     []string           `json:"reportImages,omitempty" bson:"reportImages,omitempty"`
	ImageURL         string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ImageFileID      string             `json:"imageFileId,omitempty" bson:"imageFileId,omitempty"`
	OriginalFilename string             `json:"originalFilename,omitempty" bson:"originalFilename,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
