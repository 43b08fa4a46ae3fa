package response

// Face is one face found by the emotion endpoint.
type Face struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion,omitempty"`
}

type RecommendedFilm struct {
	Title      string `json:"title"`
	PosterPath string `json:"poster_path,omitempty"`
}

type RecommendationResponse struct {
	Emotion        string            `json:"emotion"`
	BackendEmotion string            `json:"backend_emotion"`
	Description    string            `json:"description"`
	Genres         []string          `json:"genres"`
	Faces          []Face            `json:"faces"`
	Films          []RecommendedFilm `json:"films"`
}
