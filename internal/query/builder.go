package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "mediscanner/internal/errors"
)

// MaxPageSize caps the number of records returned per page.
const MaxPageSize = 100

// RecordFilter holds the user-supplied filters for listing medical records.
// Zero-valued fields are omitted from the query.
type RecordFilter struct {
	DoctorName   string
	HospitalName string
	MedicineName string
	Date         string // exact visit date, YYYY-MM-DD
	DateFrom     string // inclusive lower bound
	DateTo       string // inclusive upper bound
}

// ListQuery is the store-ready output of Build.
type ListQuery struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Build translates filters and pagination parameters into a Mongo query.
// The owner scope is always present, independent of the supplied filters.
func Build(ownerID primitive.ObjectID, f RecordFilter, page, limit int) (*ListQuery, error) {
	if page < 1 || limit < 1 || limit > MaxPageSize {
		return nil, apperrors.ErrInvalidPagination
	}

	filter := bson.M{"userId": ownerID}

	if f.DoctorName != "" {
		filter["doctorName"] = bson.M{"$regex": regexp.QuoteMeta(f.DoctorName), "$options": "i"}
	}
	if f.HospitalName != "" {
		filter["hospitalName"] = bson.M{"$regex": regexp.QuoteMeta(f.HospitalName), "$options": "i"}
	}
	if f.MedicineName != "" {
		filter["medicines.name"] = bson.M{"$regex": regexp.QuoteMeta(f.MedicineName), "$options": "i"}
	}
	if f.Date != "" {
		filter["date"] = f.Date
	} else if f.DateFrom != "" || f.DateTo != "" {
		dateRange := bson.M{}
		if f.DateFrom != "" {
			dateRange["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["$lte"] = f.DateTo
		}
		filter["date"] = dateRange
	}

	return &ListQuery{
		Filter: filter,
		Sort:   bson.D{{Key: "createdAt", Value: -1}},
		Skip:   int64(page-1) * int64(limit),
		Limit:  int64(limit),
	}, nil
}

// Paginate computes the page metadata for a listing of total matches.
func Paginate(page, limit int, total int64) Pagination {
	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}

// CountByDoctor builds an aggregation pipeline grouping the owner's records
// by doctor name, most frequent first.
func CountByDoctor(ownerID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": ownerID}}},
		{{Key: "$group", Value: bson.M{"_id": "$doctorName", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

// CountByMonth builds an aggregation pipeline grouping the owner's records by
// visit month (the YYYY-MM prefix of the date field), oldest first.
func CountByMonth(ownerID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": ownerID, "date": bson.M{"$ne": ""}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$substrBytes": bson.A{"$date", 0, 7}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
