package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "mediscanner/internal/errors"
)

func TestBuild_RejectsInvalidPagination(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []struct {
		name  string
		page  int
		limit int
	}{
		{"zero page", 0, 10},
		{"negative page", -1, 10},
		{"zero limit", 1, 0},
		{"negative limit", 1, -5},
		{"limit above cap", 1, MaxPageSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(owner, RecordFilter{}, tt.page, tt.limit)
			assert.Nil(t, q)
			assert.ErrorIs(t, err, apperrors.ErrInvalidPagination)
		})
	}
}

func TestBuild_OwnerScopingIsUnconditional(t *testing.T) {
	owner := primitive.NewObjectID()

	filters := []RecordFilter{
		{},
		{DoctorName: "sharma"},
		{HospitalName: "city", MedicineName: "amox"},
		{DateFrom: "2026-01-01", DateTo: "2026-12-31"},
		{Date: "2026-08-21"},
	}

	for _, f := range filters {
		q, err := Build(owner, f, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, owner, q.Filter["userId"])
	}
}

func TestBuild_SkipAndLimit(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := Build(owner, RecordFilter{}, 2, 10)
	assert.NoError(t, err)
	assert.EqualValues(t, 10, q.Skip)
	assert.EqualValues(t, 10, q.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, q.Sort)

	q, err = Build(owner, RecordFilter{}, 1, 25)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, q.Skip)
	assert.EqualValues(t, 25, q.Limit)
}

func TestBuild_OmitsUnsuppliedFilters(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := Build(owner, RecordFilter{}, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, q.Filter, 1) // owner scope only
}

func TestBuild_PartialMatchFilters(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := Build(owner, RecordFilter{
		DoctorName:   "sharma",
		HospitalName: "city general",
		MedicineName: "amoxicillin",
	}, 1, 10)
	assert.NoError(t, err)

	assert.Equal(t, bson.M{"$regex": "sharma", "$options": "i"}, q.Filter["doctorName"])
	assert.Equal(t, bson.M{"$regex": "city general", "$options": "i"}, q.Filter["hospitalName"])
	assert.Equal(t, bson.M{"$regex": "amoxicillin", "$options": "i"}, q.Filter["medicines.name"])
}

func TestBuild_EscapesRegexMetacharacters(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := Build(owner, RecordFilter{DoctorName: "dr. (on-call)"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, bson.M{"$regex": `dr\. \(on-call\)`, "$options": "i"}, q.Filter["doctorName"])
}

func TestBuild_DateFilters(t *testing.T) {
	owner := primitive.NewObjectID()

	q, err := Build(owner, RecordFilter{DateFrom: "2026-01-01", DateTo: "2026-06-30"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, bson.M{"$gte": "2026-01-01", "$lte": "2026-06-30"}, q.Filter["date"])

	q, err = Build(owner, RecordFilter{DateFrom: "2026-01-01"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, bson.M{"$gte": "2026-01-01"}, q.Filter["date"])

	// Exact date wins over range bounds.
	q, err = Build(owner, RecordFilter{Date: "2026-08-21", DateFrom: "2026-01-01"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-21", q.Filter["date"])
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int64
		hasNext    bool
		hasPrev    bool
	}{
		{"middle page of 25", 2, 10, 25, 3, true, true},
		{"first page", 1, 10, 25, 3, true, false},
		{"last page", 3, 10, 25, 3, false, true},
		{"exact multiple", 2, 10, 20, 2, false, true},
		{"empty result", 1, 10, 0, 0, false, false},
		{"single record", 1, 10, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
		})
	}
}

func TestAggregationPipelinesScopeToOwner(t *testing.T) {
	owner := primitive.NewObjectID()

	doctor := CountByDoctor(owner)
	assert.Equal(t, bson.M{"userId": owner}, doctor[0][0].Value)

	month := CountByMonth(owner)
	match := month[0][0].Value.(bson.M)
	assert.Equal(t, owner, match["userId"])
}
