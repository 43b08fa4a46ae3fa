package recommend

import "strings"

const (
	DefaultEmotion = "neutral"
	DefaultGenre   = "drama"
)

// backendEmotions maps detector emotions to the recommender's vocabulary.
var backendEmotions = map[string]string{
	"happy":        "Enjoyment",
	"sad":          "Sad",
	"angry":        "Anger",
	"fear":         "Fear",
	"disgust":      "Disgust",
	"surprise":     "Surprise",
	"neutral":      "Trust",
	"trust":        "Trust",
	"anticipation": "Anticipation",
}

var genres = map[string][]string{
	"happy":        {"comedy", "animation", "adventure", "family"},
	"sad":          {"drama", "romance", "documentary"},
	"angry":        {"action", "thriller", "crime"},
	"fear":         {"horror", "mystery", "thriller"},
	"disgust":      {"horror", "documentary", "crime"},
	"surprise":     {"sci-fi", "fantasy", "mystery"},
	"neutral":      {"documentary", "biography", "history"},
	"trust":        {"adventure", "family", "fantasy"},
	"anticipation": {"thriller", "mystery", "sci-fi"},
}

var descriptions = map[string]string{
	"happy":        "happy and uplifted mood, looking for something cheerful and fun",
	"sad":          "feeling sad or melancholic, might want something thoughtful or cathartic",
	"angry":        "feeling frustrated or angry, might need something engaging or action-packed",
	"fear":         "feeling anxious or scared, possibly seeking thrill or distraction",
	"disgust":      "feeling disgusted or repulsed, might want something clean or beautiful",
	"surprise":     "feeling surprised or curious, open to unexpected or unusual content",
	"neutral":      "feeling balanced and calm, open to thoughtful or informative content",
	"trust":        "feeling trusting and open, might enjoy meaningful or inspiring stories",
	"anticipation": "feeling excited and anticipatory, might enjoy suspenseful or innovative content",
}

// Mood is what a detected emotion means for recommendations.
type Mood struct {
	Emotion        string
	BackendEmotion string
	Description    string
	Genres         []string
}

// MoodFor normalizes a detector emotion. Unknown emotions are treated as neutral.
func MoodFor(emotion string) Mood {
	e := strings.ToLower(strings.TrimSpace(emotion))
	if _, ok := backendEmotions[e]; !ok {
		e = DefaultEmotion
	}

	g := append([]string(nil), genres[e]...)
	if len(g) == 0 {
		g = []string{DefaultGenre}
	}

	return Mood{
		Emotion:        e,
		BackendEmotion: backendEmotions[e],
		Description:    descriptions[e],
		Genres:         g,
	}
}
