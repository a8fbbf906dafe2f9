package model

// Category groups trivia questions.  Type is the unique label shown to
// players (e.g. "Science").  Deleting a category deletes its questions.
type Category struct {
    ID   int64  // categories.id
    Type string // categories.type
}
