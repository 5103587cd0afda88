package insight

// GenomeInsightRequest targets a patient by id ("patient-001") or by
// subject reference ("Patient/patient-001").
type GenomeInsightRequest struct {
	PatientID string `json:"patient_id"`
	Subject   string `json:"subject"`
}

// GenomeInsightResponse carries the interpretation and the exact component
// JSON text it was produced from.
type GenomeInsightResponse struct {
	Insight string `json:"insight"`
	Input   string `json:"input"`
}

// RadiologyInsightRequest is echoed back unchanged; absent fields stay null.
type RadiologyInsightRequest struct {
	PatientID *string `json:"patient_id"`
	ImageData *string `json:"image_data"`
	StudyType *string `json:"study_type"`
	Findings  *string `json:"findings"`
}

type RadiologyInsightResponse struct {
	Insight string                  `json:"insight"`
	Input   RadiologyInsightRequest `json:"input"`
}

type StatusResponse struct {
	Message string `json:"message"`
}

const (
	runningMessage   = "Health Nexus AI Backend is running."
	radiologyInsight = "Radiology insights will be here."
)
