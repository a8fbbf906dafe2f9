package model

// Question is a trivia question.  Text is unique across the store and
// Difficulty is a positive integer enforced by a CHECK constraint.
//
// Fields:
//  ID           – primary key identifier.
//  Text         – the question as shown to players.
//  Answer       – expected answer.
//  CategoryID   – owning category.
//  CategoryType – label of the owning category, filled by joins.
//  Difficulty   – 1 (easy) and up.
type Question struct {
    ID           int64  // questions.id
    Text         string // questions.question
    Answer       string // questions.answer
    CategoryID   int64  // questions.category_id
    CategoryType string // categories.type (joined)
    Difficulty   int    // questions.difficulty
}
