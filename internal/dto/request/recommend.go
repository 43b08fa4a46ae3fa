package request

type RecommendationQuery struct {
	Limit int `validate:"min=1,max=20"`
}
