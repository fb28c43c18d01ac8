// Package predict turns the day's extracted schedule and entry-list
// data into trifecta bet recommendations via the Gemini API.
package predict

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// Input is everything the prompt embeds for one day.
type Input struct {
	RacerName     string
	VenueName     string
	Date          string // YYYYMMDD
	DailyBudget   int
	Rows          []models.RaceRow
	SeriesRaces   []models.SeriesRaceRow
	RaceListTexts []string // flattened racelist page text, one per race
}

// Predictor calls the Gemini API with a strict response schema.
type Predictor struct {
	client    *genai.Client
	modelName string
}

// NewPredictor builds a predictor. The API key is required.
func NewPredictor(ctx context.Context, apiKey, modelName string) (*Predictor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Predictor{client: client, modelName: modelName}, nil
}

// Predict generates trifecta predictions for every race in the input.
// The response is requested as schema-constrained JSON; if the raw text
// still fails to parse, one recovery attempt extracts the first
// balanced brace span before the failure is surfaced.
func (p *Predictor) Predict(ctx context.Context, in Input) (*models.PredictionSet, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildPrompt(in)}},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		Temperature:      genai.Ptr[float32](0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return decodePredictions(resp.Text())
}

func decodePredictions(text string) (*models.PredictionSet, error) {
	var set models.PredictionSet
	if err := json.Unmarshal([]byte(text), &set); err == nil {
		return &set, nil
	}

	span, ok := FirstJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("model response contains no JSON object: %.200s", text)
	}
	if err := json.Unmarshal([]byte(span), &set); err != nil {
		return nil, fmt.Errorf("failed to decode model response JSON: %w", err)
	}
	return &set, nil
}

// FirstJSONObject returns the first balanced {...} span in text,
// tolerating the object being wrapped in extraneous prose or fencing.
func FirstJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}

func responseSchema() *genai.Schema {
	betSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"combination": {Type: genai.TypeString, Description: "Trifecta combination, X-Y-Z."},
			"amount":      {Type: genai.TypeInteger, Description: "Stake in yen, multiples of 100."},
			"reasoning":   {Type: genai.TypeString, Description: "Short justification for this pick."},
		},
		Required: []string{"combination", "amount"},
	}

	predictionSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"race_no":  {Type: genai.TypeInteger, Description: "Race number."},
			"analysis": {Type: genai.TypeString, Description: "Short race outlook."},
			"bets": {
				Type:  genai.TypeArray,
				Items: betSchema,
			},
		},
		Required: []string{"race_no", "bets"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"predictions": {
				Type:  genai.TypeArray,
				Items: predictionSchema,
			},
		},
		Required: []string{"predictions"},
	}
}
