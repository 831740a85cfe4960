package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/model"
	"mediscanner/internal/query"
	"mediscanner/internal/repository"
)

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, ownerID, id primitive.ObjectID) (*model.MedicalRecord, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, q *query.ListQuery) ([]model.MedicalRecord, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.MedicalRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, update bson.M) (*model.MedicalRecord, error) {
	args := m.Called(ctx, ownerID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockRecordRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]repository.StatsBucket, error) {
	args := m.Called(ctx, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatsBucket), args.Error(1)
}

// MockImageStore is a mock implementation of ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockExtractor is a mock implementation of PrescriptionExtractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) FromImage(ctx context.Context, imageBytes []byte, fileName string) (*model.MedicalRecord, error) {
	args := m.Called(ctx, imageBytes, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func newTestRecordService() (RecordService, *MockRecordRepository, *MockImageStore, *MockExtractor) {
	mockRepo := new(MockRecordRepository)
	mockImages := new(MockImageStore)
	mockExtractor := new(MockExtractor)
	return NewRecordService(mockRepo, mockImages, mockExtractor), mockRepo, mockImages, mockExtractor
}

func TestRecordService_UploadValidation(t *testing.T) {
	ownerID := primitive.NewObjectID()

	tests := []struct {
		name  string
		files []UploadedFile
	}{
		{name: "no files", files: nil},
		{name: "unsupported extension", files: []UploadedFile{{URL: "https://ik.example/scan.pdf", Name: "scan.pdf"}}},
		{name: "no extension at all", files: []UploadedFile{{URL: "https://ik.example/scan", Name: "scan"}}},
		{
			name: "one bad file fails the whole batch",
			files: []UploadedFile{
				{URL: "https://ik.example/a.jpg", Name: "a.jpg"},
				{URL: "https://ik.example/b.exe", Name: "b.exe"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockImages, _ := newTestRecordService()

			records, err := svc.Upload(context.Background(), ownerID, tt.files)

			var ve *apperrors.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Nil(t, records)
			mockImages.AssertNotCalled(t, "Download")
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestRecordService_UploadSuccess(t *testing.T) {
	ownerID := primitive.NewObjectID()
	svc, mockRepo, mockImages, mockExtractor := newTestRecordService()

	files := []UploadedFile{
		{URL: "https://ik.example/first.jpg", FileID: "fid-1", Name: "first.jpg"},
		{URL: "https://ik.example/second.PNG", FileID: "fid-2", Name: "second.PNG"},
	}

	for _, f := range files {
		imageBytes := []byte("image:" + f.Name)
		mockImages.On("Download", mock.Anything, f.URL).Return(imageBytes, nil)
		mockExtractor.On("FromImage", mock.Anything, imageBytes, f.Name).Return(&model.MedicalRecord{
			PatientName: "John Doe",
			DoctorName:  "Dr. Smith",
		}, nil)
	}
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.MedicalRecord")).Return(nil)

	records, err := svc.Upload(context.Background(), ownerID, files)

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for i, rec := range records {
		assert.Equal(t, ownerID, rec.UserID)
		assert.Equal(t, i+1, rec.SerialNo)
		assert.Equal(t, files[i].URL, rec.ImageURL)
		assert.Equal(t, files[i].FileID, rec.ImageFileID)
		assert.Equal(t, files[i].Name, rec.OriginalFilename)
	}

	mockRepo.AssertNumberOfCalls(t, "Create", 2)
	mockImages.AssertExpectations(t)
	mockExtractor.AssertExpectations(t)
}

func TestRecordService_UploadUpstreamFailure(t *testing.T) {
	ownerID := primitive.NewObjectID()
	svc, mockRepo, mockImages, _ := newTestRecordService()

	mockImages.On("Download", mock.Anything, "https://ik.example/a.jpg").
		Return(nil, assert.AnError)

	records, err := svc.Upload(context.Background(), ownerID, []UploadedFile{
		{URL: "https://ik.example/a.jpg", Name: "a.jpg"},
	})

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Nil(t, records)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRecordService_GetInvalidID(t *testing.T) {
	svc, mockRepo, _, _ := newTestRecordService()

	record, err := svc.Get(context.Background(), primitive.NewObjectID(), "not-a-hex-id")

	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
	assert.Nil(t, record)
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestRecordService_ListPagination(t *testing.T) {
	ownerID := primitive.NewObjectID()
	svc, mockRepo, _, _ := newTestRecordService()

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q *query.ListQuery) bool {
		return q.Skip == 10 && q.Limit == 10
	})).Return([]model.MedicalRecord{{DoctorName: "Dr. Smith"}}, int64(25), nil)

	records, pagination, err := svc.List(context.Background(), ownerID, query.RecordFilter{}, 2, 10)

	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int64(25), pagination.Total)
	assert.Equal(t, int64(3), pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
	mockRepo.AssertExpectations(t)
}

func TestRecordService_ListInvalidPagination(t *testing.T) {
	svc, mockRepo, _, _ := newTestRecordService()

	_, _, err := svc.List(context.Background(), primitive.NewObjectID(), query.RecordFilter{}, 0, 10)

	assert.ErrorIs(t, err, apperrors.ErrInvalidPagination)
	mockRepo.AssertNotCalled(t, "List")
}

func TestRecordService_Update(t *testing.T) {
	ownerID := primitive.NewObjectID()
	recordID := primitive.NewObjectID()

	t.Run("malformed date", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()
		date := "15-01-2024"

		record, err := svc.Update(context.Background(), ownerID, recordID.Hex(), RecordUpdate{Date: &date})

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Nil(t, record)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("empty medicines list", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()

		_, err := svc.Update(context.Background(), ownerID, recordID.Hex(), RecordUpdate{Medicines: []model.Medicine{}})

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("no fields", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()

		_, err := svc.Update(context.Background(), ownerID, recordID.Hex(), RecordUpdate{})

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()
		doctor := "Dr. Jones"
		date := "2024-01-15"

		mockRepo.On("Update", mock.Anything, ownerID, recordID, bson.M{
			"doctorName": doctor,
			"date":       date,
		}).Return(&model.MedicalRecord{DoctorName: doctor, Date: date}, nil)

		record, err := svc.Update(context.Background(), ownerID, recordID.Hex(), RecordUpdate{
			DoctorName: &doctor,
			Date:       &date,
		})

		assert.NoError(t, err)
		assert.Equal(t, doctor, record.DoctorName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid record id", func(t *testing.T) {
		svc, _, _, _ := newTestRecordService()
		doctor := "Dr. Jones"

		_, err := svc.Update(context.Background(), ownerID, "zzz", RecordUpdate{DoctorName: &doctor})

		assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
	})
}

func TestRecordService_Stats(t *testing.T) {
	ownerID := primitive.NewObjectID()

	t.Run("by doctor is the default", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()
		buckets := []repository.StatsBucket{{Key: "Dr. Smith", Count: 4}}
		mockRepo.On("Aggregate", mock.Anything, mock.AnythingOfType("mongo.Pipeline")).Return(buckets, nil)

		got, err := svc.Stats(context.Background(), ownerID, "")
		assert.NoError(t, err)
		assert.Equal(t, buckets, got)
	})

	t.Run("by month", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()
		buckets := []repository.StatsBucket{{Key: "2024-01", Count: 2}}
		mockRepo.On("Aggregate", mock.Anything, mock.AnythingOfType("mongo.Pipeline")).Return(buckets, nil)

		got, err := svc.Stats(context.Background(), ownerID, StatsByMonth)
		assert.NoError(t, err)
		assert.Equal(t, buckets, got)
	})

	t.Run("unknown group", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestRecordService()

		_, err := svc.Stats(context.Background(), ownerID, "year")

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		mockRepo.AssertNotCalled(t, "Aggregate")
	})
}
