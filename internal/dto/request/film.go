package request

type VoteRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=10"`
}

type SearchQuery struct {
	Query string `validate:"max=100"`
}
