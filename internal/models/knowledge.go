package models

// Document is one knowledge base source file, identified by its base name.
type Document struct {
	ID    string
	Title string
	Text  string
}

// Chunk is one blank-line separated passage of a Document.
// ID has the form "<document id>#<ordinal>".
type Chunk struct {
	ID         string
	DocumentID string
	Ordinal    int
	Title      string
	Text       string
}

// Hit is a chunk scored against a query.
type Hit struct {
	ChunkID string
	Title   string
	Text    string
	Score   float64
}
