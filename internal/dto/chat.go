package dto

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message" example:"how can I sleep better"`
}

type CitationResponse struct {
	Title   string `json:"title" example:"Sleep"`
	ChunkID string `json:"chunk_id" example:"sleep.md#0"`
}

type SafetyResponse struct {
	Crisis     bool `json:"crisis,omitempty"`
	OutOfScope bool `json:"out_of_scope,omitempty"`
}

type ChatResponse struct {
	Reply     string             `json:"reply"`
	Citations []CitationResponse `json:"citations"`
	Safety    SafetyResponse     `json:"safety"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	KBChunks int    `json:"kb_chunks" example:"12"`
	EmbModel string `json:"emb_model" example:"tfidf"`
	EmbDim   int    `json:"emb_dim" example:"240"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Empty message"`
}
