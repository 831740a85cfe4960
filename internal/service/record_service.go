package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/model"
	"mediscanner/internal/query"
	"mediscanner/internal/repository"
)

// allowedImageExtensions are the file types accepted for prescription uploads.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadedFile describes one image already hosted on the image store.
type UploadedFile struct {
	URL    string
	FileID string
	Name   string
}

// RecordUpdate carries the editable fields of a record. Nil pointers leave
// the stored value untouched.
type RecordUpdate struct {
	SerialNo     *int
	PatientName  *string
	Age          *int
	Weight       *float64
	Height       *float64
	Temperature  *float64
	HospitalName *string
	DoctorName   *string
	Date         *string
	Medicines    []model.Medicine
}

// StatsGroup selects the aggregation dimension.
type StatsGroup string

const (
	StatsByDoctor StatsGroup = "doctor"
	StatsByMonth  StatsGroup = "month"
)

// ImageStore fetches hosted image bytes.
type ImageStore interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// PrescriptionExtractor produces a structured record candidate from an image.
type PrescriptionExtractor interface {
	FromImage(ctx context.Context, imageBytes []byte, fileName string) (*model.MedicalRecord, error)
}

// RecordService handles prescription record operations, always scoped to the
// owning user.
type RecordService interface {
	Upload(ctx context.Context, ownerID primitive.ObjectID, files []UploadedFile) ([]model.MedicalRecord, error)
	Get(ctx context.Context, ownerID primitive.ObjectID, recordID string) (*model.MedicalRecord, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter query.RecordFilter, page, limit int) ([]model.MedicalRecord, query.Pagination, error)
	Update(ctx context.Context, ownerID primitive.ObjectID, recordID string, update RecordUpdate) (*model.MedicalRecord, error)
	Delete(ctx context.Context, ownerID primitive.ObjectID, recordID string) error
	Stats(ctx context.Context, ownerID primitive.ObjectID, group StatsGroup) ([]repository.StatsBucket, error)
}

type recordService struct {
	recordRepo repository.RecordRepository
	images     ImageStore
	extractor  PrescriptionExtractor
}

// NewRecordService creates a new record service.
func NewRecordService(recordRepo repository.RecordRepository, images ImageStore, extractor PrescriptionExtractor) RecordService {
	return &recordService{
		recordRepo: recordRepo,
		images:     images,
		extractor:  extractor,
	}
}

// Upload downloads each hosted image, extracts a record candidate from it,
// and persists the result under the owner.
func (s *recordService) Upload(ctx context.Context, ownerID primitive.ObjectID, files []UploadedFile) ([]model.MedicalRecord, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no prescription images provided")
	}
	for _, f := range files {
		idx := strings.LastIndex(f.Name, ".")
		if idx < 0 || !allowedImageExtensions[strings.ToLower(f.Name[idx:])] {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("invalid file type for %s: allowed types are jpg, jpeg, png, gif, webp", f.Name))
		}
	}

	records := make([]model.MedicalRecord, 0, len(files))
	for i, f := range files {
		imageBytes, err := s.images.Download(ctx, f.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}

		record, err := s.extractor.FromImage(ctx, imageBytes, f.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}

		record.UserID = ownerID
		record.SerialNo = i + 1
		record.ImageURL = f.URL
		record.ImageFileID = f.FileID
		record.OriginalFilename = f.Name

		if err := s.recordRepo.Create(ctx, record); err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (s *recordService) Get(ctx context.Context, ownerID primitive.ObjectID, recordID string) (*model.MedicalRecord, error) {
	id, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, apperrors.ErrRecordNotFound
	}
	return s.recordRepo.FindByID(ctx, ownerID, id)
}

func (s *recordService) List(ctx context.Context, ownerID primitive.ObjectID, filter query.RecordFilter, page, limit int) ([]model.MedicalRecord, query.Pagination, error) {
	q, err := query.Build(ownerID, filter, page, limit)
	if err != nil {
		return nil, query.Pagination{}, err
	}

	records, total, err := s.recordRepo.List(ctx, q)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return records, query.Paginate(page, limit, total), nil
}

func (s *recordService) Update(ctx context.Context, ownerID primitive.ObjectID, recordID string, update RecordUpdate) (*model.MedicalRecord, error) {
	id, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, apperrors.ErrRecordNotFound
	}

	set := bson.M{}
	if update.SerialNo != nil {
		set["serialNo"] = *update.SerialNo
	}
	if update.PatientName != nil {
		set["patientName"] = *update.PatientName
	}
	if update.Age != nil {
		set["age"] = *update.Age
	}
	if update.Weight != nil {
		set["weight"] = *update.Weight
	}
	if update.Height != nil {
		set["height"] = *update.Height
	}
	if update.Temperature != nil {
		set["temperature"] = *update.Temperature
	}
	if update.HospitalName != nil {
		set["hospitalName"] = *update.HospitalName
	}
	if update.DoctorName != nil {
		set["doctorName"] = *update.DoctorName
	}
	if update.Date != nil {
		if _, err := time.Parse("2006-01-02", *update.Date); err != nil {
			return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		set["date"] = *update.Date
	}
	if update.Medicines != nil {
		if len(update.Medicines) == 0 {
			return nil, apperrors.NewValidationError("at least one medicine must be provided")
		}
		set["medicines"] = update.Medicines
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	return s.recordRepo.Update(ctx, ownerID, id, set)
}

func (s *recordService) Delete(ctx context.Context, ownerID primitive.ObjectID, recordID string) error {
	id, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return apperrors.ErrRecordNotFound
	}
	return s.recordRepo.Delete(ctx, ownerID, id)
}

// Stats computes record counts grouped by doctor or by visit month.
func (s *recordService) Stats(ctx context.Context, ownerID primitive.ObjectID, group StatsGroup) ([]repository.StatsBucket, error) {
	switch group {
	case StatsByMonth:
		return s.recordRepo.Aggregate(ctx, query.CountByMonth(ownerID))
	case StatsByDoctor, "":
		return s.recordRepo.Aggregate(ctx, query.CountByDoctor(ownerID))
	default:
		return nil, apperrors.NewValidationError("group must be one of: doctor, month")
	}
}
