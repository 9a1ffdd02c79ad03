package request

type SubmitExtractRequest struct {
	URL   string `json:"url"`
	Force bool   `json:"force"`
}
