package insight

import (
	"net/http"

	"github.com/healthnexus/nexus/internal/platform/openapi"
)

// Operations documents the routes registered by Handler.
func Operations() []openapi.Operation {
	return []openapi.Operation{
		{
			Method:      http.MethodGet,
			Path:        "/",
			Summary:     "Liveness message",
			OperationID: "readRoot",
			Responses:   map[int]openapi.Response{http.StatusOK: {Description: "Service is running", Schema: "StatusResponse"}},
		},
		{
			Method:      http.MethodPost,
			Path:        "/insightsRad",
			Summary:     "Get radiology insights for a patient",
			OperationID: "insightsRad",
			Tag:         "insights",
			Request:     "RadiologyInsightRequest",
			Responses: map[int]openapi.Response{
				http.StatusOK:         {Description: "Placeholder insight and the echoed request", Schema: "RadiologyInsightResponse"},
				http.StatusBadRequest: {Description: "Malformed body", Schema: "Error"},
			},
		},
		{
			Method:      http.MethodPost,
			Path:        "/insightsGenome",
			Summary:     "Get genome insights for a patient",
			OperationID: "insightsGenome",
			Tag:         "insights",
			Request:     "GenomeInsightRequest",
			Responses: map[int]openapi.Response{
				http.StatusOK:             {Description: "Interpretation of the newest observation", Schema: "GenomeInsightResponse"},
				http.StatusBadRequest:     {Description: "Missing patient_id or subject", Schema: "Error"},
				http.StatusNotFound:       {Description: "No observation for the subject", Schema: "Error"},
				http.StatusBadGateway:     {Description: "Model endpoint failed", Schema: "Error"},
				http.StatusGatewayTimeout: {Description: "Model endpoint timed out", Schema: "Error"},
			},
		},
	}
}

func nullableString(example string) openapi.Schema {
	return openapi.Schema{"type": "string", "nullable": true, "example": example}
}

// Schemas are the component schemas referenced by Operations.
func Schemas() map[string]openapi.Schema {
	return map[string]openapi.Schema{
		"StatusResponse": {
			"type":       "object",
			"properties": map[string]interface{}{"message": openapi.Schema{"type": "string"}},
		},
		"GenomeInsightRequest": {
			"type": "object",
			"properties": map[string]interface{}{
				"patient_id": nullableString("patient-001"),
				"subject":    nullableString("Patient/patient-001"),
			},
		},
		"GenomeInsightResponse": {
			"type": "object",
			"properties": map[string]interface{}{
				"insight": openapi.Schema{"type": "string"},
				"input":   openapi.Schema{"type": "string", "description": "component JSON of the observation that was interpreted"},
			},
		},
		"RadiologyInsightRequest": {
			"type": "object",
			"properties": map[string]interface{}{
				"patient_id": nullableString("patient-001"),
				"image_data": nullableString("base64_encoded_image_data"),
				"study_type": nullableString("chest_xray"),
				"findings":   nullableString("chest pain evaluation"),
			},
		},
		"RadiologyInsightResponse": {
			"type": "object",
			"properties": map[string]interface{}{
				"insight": openapi.Schema{"type": "string"},
				"input":   openapi.Schema{"$ref": "#/components/schemas/RadiologyInsightRequest"},
			},
		},
		"Error": {
			"type":       "object",
			"properties": map[string]interface{}{"error": openapi.Schema{"type": "string"}},
		},
	}
}
