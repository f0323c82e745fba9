package entity

// Passage is a corpus snippet as exposed to the retrieval layer,
// decoupled from the gorm row shape.
type Passage struct {
	SourceId    string
	Text        string
	IngestIndex int64
}
