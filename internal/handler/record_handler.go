package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mediscanner/internal/model"
	"mediscanner/internal/query"
	"mediscanner/internal/service"
)

// RecordHandler handles prescription record endpoints.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// FileDetail identifies one uploaded image on the image store.
type FileDetail struct {
	URL    string `json:"url" validate:"required,url"`
	FileID string `json:"fileId" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

// UploadRequest represents a prescription upload request.
type UploadRequest struct {
	FileDetails []FileDetail `json:"fileDetails" validate:"required,min=1,dive"`
}

// UpdateRecordRequest represents a record edit. Absent fields are untouched.
type UpdateRecordRequest struct {
	SerialNo     *int             `json:"serialNo,omitempty"`
	PatientName  *string          `json:"patientName,omitempty"`
	Age          *int             `json:"age,omitempty"`
	Weight       *float64         `json:"weight,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	HospitalName *string          `json:"hospitalName,omitempty"`
	DoctorName   *string          `json:"doctorName,omitempty"`
	Date         *string          `json:"date,omitempty"`
	Medicines    []model.Medicine `json:"medicines,omitempty"`
}

// ListResponse represents a paginated listing of records.
type ListResponse struct {
	Success    bool                  `json:"success"`
	Count      int                   `json:"count"`
	Data       []model.MedicalRecord `json:"data"`
	Pagination query.Pagination      `json:"pagination"`
}

// Upload godoc
// @Summary Upload prescription images and extract records
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadRequest true "Hosted image details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /medicine/uploadMedicalPrescription [post]
func (h *RecordHandler) Upload(c echo.Context) error {
	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	files := make([]service.UploadedFile, 0, len(req.FileDetails))
	for _, fd := range req.FileDetails {
		files = append(files, service.UploadedFile{URL: fd.URL, FileID: fd.FileID, Name: fd.Name})
	}

	records, err := h.recordService.Upload(c.Request().Context(), userID, files)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "prescription images processed",
		"count":   len(records),
		"data":    records,
	})
}

// List godoc
// @Summary List the caller's records with filters and pagination
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param doctorName query string false "Partial doctor name, case-insensitive"
// @Param hospitalName query string false "Partial hospital name"
// @Param medicineName query string false "Partial medicine name"
// @Param date query string false "Exact visit date YYYY-MM-DD"
// @Param dateFrom query string false "Inclusive lower bound YYYY-MM-DD"
// @Param dateTo query string false "Inclusive upper bound YYYY-MM-DD"
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 10, max 100"
// @Success 200 {object} ListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /medicine/usersMedicalData [get]
func (h *RecordHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	filter := query.RecordFilter{
		DoctorName:   c.QueryParam("doctorName"),
		HospitalName: c.QueryParam("hospitalName"),
		MedicineName: c.QueryParam("medicineName"),
		Date:         c.QueryParam("date"),
		DateFrom:     c.QueryParam("dateFrom"),
		DateTo:       c.QueryParam("dateTo"),
	}

	records, pagination, err := h.recordService.List(c.Request().Context(), userID, filter, page, limit)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Count:      len(records),
		Data:       records,
		Pagination: pagination,
	})
}

// Get godoc
// @Summary Fetch one record by id
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record id"
// @Success 200 {object} model.MedicalRecord
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicine/records/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	record, err := h.recordService.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Update godoc
// @Summary Edit a record
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record id"
// @Param request body UpdateRecordRequest true "Fields to change"
// @Success 200 {object} model.MedicalRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicine/records/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	var req UpdateRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	record, err := h.recordService.Update(c.Request().Context(), userID, c.Param("id"), service.RecordUpdate{
		SerialNo:     req.SerialNo,
		PatientName:  req.PatientName,
		Age:          req.Age,
		Weight:       req.Weight,
		Height:       req.Height,
		Temperature:  req.Temperature,
		HospitalName: req.HospitalName,
		DoctorName:   req.DoctorName,
		Date:         req.Date,
		Medicines:    req.Medicines,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a record
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicine/records/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.recordService.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "record deleted successfully",
	})
}

// Stats godoc
// @Summary Record counts grouped by doctor or month
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param group query string false "doctor (default) or month"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /medicine/stats [get]
func (h *RecordHandler) Stats(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	buckets, err := h.recordService.Stats(c.Request().Context(), userID, service.StatsGroup(c.QueryParam("group")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    buckets,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1 // rejected downstream as invalid pagination
	}
	return v
}
