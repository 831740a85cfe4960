package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mediscanner/internal/model"
)

// extractionPrompt instructs the model to return a single JSON object with
// the prescription fields, using null for anything illegible.
const extractionPrompt = `You are a highly accurate medical prescription data extraction AI. Extract structured information from the prescription image with extreme precision.

Rules:
1. Extract data exactly as written; do not interpret or guess.
2. If any field is unclear, illegible, or absent, use null.
3. Verify all numerical values and medicine quantities.

Return ONLY a raw JSON object (no markdown, no code fences) with this structure:
{
  "patientName": "string or null",
  "age": integer or null,
  "weight": float or null,
  "height": float or null,
  "temperature": float or null,
  "hospitalName": "string or null",
  "doctorName": "string or null",
  "date": "YYYY-MM-DD or null",
  "medicines": [
    {
      "name": "string or null",
      "quantity": integer or null,
      "timeOfIntake": "string or null",
      "beforeOrAfterMeals": "string or null"
    }
  ]
}

If the image is not a medical prescription, return all fields as null.`

type extractedMedicine struct {
	Name               *string `json:"name"`
	Quantity           *int    `json:"quantity"`
	TimeOfIntake       *string `json:"timeOfIntake"`
	BeforeOrAfterMeals *string `json:"beforeOrAfterMeals"`
}

type extractedPrescription struct {
	PatientName  *string             `json:"patientName"`
	Age          *int                `json:"age"`
	Weight       *float64            `json:"weight"`
	Height       *float64            `json:"height"`
	Temperature  *float64            `json:"temperature"`
	HospitalName *string             `json:"hospitalName"`
	DoctorName   *string             `json:"doctorName"`
	Date         *string             `json:"date"`
	Medicines    []extractedMedicine `json:"medicines"`
}

// Extractor turns prescription images into structured medical records using
// an OpenAI-compatible vision model.
type Extractor struct {
	client *openai.Client
	model  string
}

// New creates an extractor. baseURL may point at any OpenAI-compatible API.
func New(apiKey, baseURL, model string) *Extractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Extractor{client: openai.NewClientWithConfig(cfg), model: model}
}

// FromImage extracts a prescription from one image. A response that cannot be
// parsed yields an empty record rather than an error, so one bad image does
// not fail a whole batch.
func (e *Extractor) FromImage(ctx context.Context, imageBytes []byte, fileName string) (*model.MedicalRecord, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(fileName), base64.StdEncoding.EncodeToString(imageBytes))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   2000,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return emptyRecord(fileName), nil
	}

	parsed, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("extraction parse failed for %s: %v", fileName, err)
		return emptyRecord(fileName), nil
	}

	record := &model.MedicalRecord{
		PatientName:  strValue(parsed.PatientName),
		Age:          intValue(parsed.Age),
		Weight:       floatValue(parsed.Weight),
		Height:       floatValue(parsed.Height),
		Temperature:  floatValue(parsed.Temperature),
		HospitalName: strValue(parsed.HospitalName),
		DoctorName:   strValue(parsed.DoctorName),
		Date:         strValue(parsed.Date),
		Medicines:    []model.Medicine{},
		ReportImages: []string{fileName},
	}
	for i, med := range parsed.Medicines {
		record.Medicines = append(record.Medicines, model.Medicine{
			ID:                 fmt.Sprintf("med_%d", i+1),
			Name:               strValue(med.Name),
			Quantity:           intValue(med.Quantity),
			TimeOfIntake:       strValue(med.TimeOfIntake),
			BeforeOrAfterMeals: strValue(med.BeforeOrAfterMeals),
		})
	}
	return record, nil
}

func parseResponse(content string) (*extractedPrescription, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed extractedPrescription
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func emptyRecord(fileName string) *model.MedicalRecord {
	return &model.MedicalRecord{
		Medicines:    []model.Medicine{},
		ReportImages: []string{fileName},
	}
}

func mimeType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func floatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
