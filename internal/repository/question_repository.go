package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stagedoor/internal/model"
)

// QuestionRepo manages trivia questions.  It implements quiz.Store and,
// through MatchName, search.Source.
type QuestionRepo struct {
	db *sql.DB
}

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{db: db} }

const questionSelect = `SELECT q.id, q.question, q.answer, q.category_id, c.type, q.difficulty
	FROM questions q
	JOIN categories c ON c.id = q.category_id`

// QuestionPage selects a page of questions, newest first.  CategoryID 0
// means every category.  Page starts at 1.
type QuestionPage struct {
	CategoryID int64
	Page       int
	PerPage    int
}

// Create inserts q.  A duplicate text is a conflict; an unknown category
// or a non-positive difficulty is an invalid argument.
func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) error {
	const ins = `INSERT INTO questions (question, answer, category_id, difficulty) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, ins, q.Text, q.Answer, q.CategoryID, q.Difficulty)
	if err != nil {
		return writeErr("question", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

// GetByID returns the question or ErrQuestionNotFound.
func (r *QuestionRepo) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	var q model.Question
	err := r.db.QueryRowContext(ctx, questionSelect+` WHERE q.id = ?`, id).
		Scan(&q.ID, &q.Text, &q.Answer, &q.CategoryID, &q.CategoryType, &q.Difficulty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Delete removes a question.
func (r *QuestionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, ErrQuestionNotFound)
}

// Page returns one page of questions and the total number of questions
// matching p.CategoryID.
func (r *QuestionRepo) Page(ctx context.Context, p QuestionPage) ([]model.Question, int, error) {
	cond, args := "1=1", []any{}
	if p.CategoryID != 0 {
		cond, args = "q.category_id = ?", []any{p.CategoryID}
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions q WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.Page < 1 {
		p.Page = 1
	}
	dataArgs := append(append([]any{}, args...), p.PerPage, (p.Page-1)*p.PerPage)
	items, err := r.questions(ctx, questionSelect+` WHERE `+cond+` ORDER BY q.id DESC LIMIT ? OFFSET ?`, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MatchName returns the questions whose lower-cased text matches the
// LIKE pattern, ordered by id.
func (r *QuestionRepo) MatchName(ctx context.Context, pattern string) ([]model.Question, error) {
	return r.questions(ctx, questionSelect+` WHERE LOWER(q.question) LIKE ? ESCAPE '!' ORDER BY q.id`, pattern)
}

// EligibleQuestions implements quiz.Store: every question outside
// excluded, limited to categoryID unless it is 0.
func (r *QuestionRepo) EligibleQuestions(ctx context.Context, categoryID int64, excluded []int64) ([]model.Question, error) {
	where := []string{"1=1"}
	args := []any{}
	if categoryID != 0 {
		where = append(where, "q.category_id = ?")
		args = append(args, categoryID)
	}
	if len(excluded) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(excluded)), ",")
		where = append(where, "q.id NOT IN ("+marks+")")
		for _, id := range excluded {
			args = append(args, id)
		}
	}
	return r.questions(ctx, questionSelect+` WHERE `+strings.Join(where, " AND ")+` ORDER BY q.id`, args...)
}

func (r *QuestionRepo) questions(ctx context.Context, q string, args ...any) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Question, 0)
	for rows.Next() {
		var m model.Question
		if err := rows.Scan(&m.ID, &m.Text, &m.Answer, &m.CategoryID, &m.CategoryType, &m.Difficulty); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
