package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// Overall moods of a dream as recorded in the emotion log.
const (
	MoodHappy     = "heureux"
	MoodStressful = "stressant"
	MoodNeutral   = "neutre"
)

// MoodDetector classifies a narrative into one of the three moods.
type MoodDetector interface {
	DetectMood(ctx context.Context, text string) (string, error)
}

// MoodConfig configures OpenAIMoodDetector.
type MoodConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type moodResponse struct {
	Mood string `json:"mood" jsonschema:"enum=heureux,enum=stressant,enum=neutre,description=Ambiance émotionnelle globale du rêve"`
}

var moodSchema = GenerateSchema[moodResponse]()

const moodInstructions = "Analyse ce rêve et donne-moi son ambiance émotionnelle (heureux, stressant, neutre)."

// OpenAIMoodDetector asks a model for the mood through a strict JSON schema.
type OpenAIMoodDetector struct {
	client *openai.Client
	cfg    MoodConfig
}

// NewOpenAIMoodDetector fails with a *ConfigError when no key is set.
func NewOpenAIMoodDetector(cfg MoodConfig) (*OpenAIMoodDetector, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, missingKey("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, &ConfigError{Setting: "emotion_log.model", Reason: "empty"}
	}
	return &OpenAIMoodDetector{client: NewOpenAIClient(cfg.APIKey, cfg.BaseURL), cfg: cfg}, nil
}

func (d *OpenAIMoodDetector) DetectMood(ctx context.Context, text string) (string, error) {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:        d.cfg.Model,
		Instructions: openai.String(moodInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "DreamMood",
					Schema:      moodSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Dream mood JSON"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := CallWithRetry(ctx, d.client, params)
	if err != nil {
		return "", fmt.Errorf("mood detection: %w", err)
	}

	var out moodResponse
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return "", fmt.Errorf("mood detection: %w", err)
	}
	mood, ok := NormalizeMood(out.Mood)
	if !ok {
		return "", fmt.Errorf("mood detection: %w: unexpected mood %q", ErrUnusableResponse, out.Mood)
	}
	return mood, nil
}

// NormalizeMood maps free-form model output onto the three moods.
func NormalizeMood(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range []string{MoodHappy, MoodStressful, MoodNeutral} {
		if strings.Contains(s, m) {
			return m, true
		}
	}
	return "", false
}
