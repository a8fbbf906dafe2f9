package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stagedoor/internal/apperr"
    "github.com/iliyamo/stagedoor/internal/metrics"
    "github.com/iliyamo/stagedoor/internal/model"
    "github.com/iliyamo/stagedoor/internal/quiz"
    "github.com/iliyamo/stagedoor/internal/repository"
    "github.com/iliyamo/stagedoor/internal/search"
)

// TriviaHandler serves categories, questions and quizzes.
type TriviaHandler struct {
    Categories *repository.CategoryRepo
    Questions  *repository.QuestionRepo
    Selector   *quiz.Selector
    PerPage    int
    Metrics    *metrics.Metrics
}

type categoryJSON struct {
    ID   int64  `json:"id"`
    Type string `json:"type"`
}

type questionJSON struct {
    ID         int64  `json:"id"`
    Question   string `json:"question"`
    Answer     string `json:"answer"`
    Category   int64  `json:"category"`
    Difficulty int    `json:"difficulty"`
}

type questionRequest struct {
    Question   string `json:"question" validate:"required"`
    Answer     string `json:"answer" validate:"required"`
    Category   int64  `json:"category" validate:"required,gt=0"`
    Difficulty int    `json:"difficulty" validate:"required,min=1"`
}

type questionSearchRequest struct {
    SearchTerm string `json:"searchTerm"`
}

func toQuestionJSON(q model.Question) questionJSON {
    return questionJSON{ID: q.ID, Question: q.Text, Answer: q.Answer, Category: q.CategoryID, Difficulty: q.Difficulty}
}

func questionsJSON(in []model.Question) []questionJSON {
    out := make([]questionJSON, 0, len(in))
    for _, q := range in {
        out = append(out, toQuestionJSON(q))
    }
    return out
}

func (h *TriviaHandler) categoryList(c echo.Context) ([]categoryJSON, error) {
    cats, err := h.Categories.List(c.Request().Context())
    if err != nil {
        return nil, err
    }
    out := make([]categoryJSON, 0, len(cats))
    for _, cat := range cats {
        out = append(out, categoryJSON{ID: cat.ID, Type: cat.Type})
    }
    return out, nil
}

// ListCategories lists every category ordered by type.
func (h *TriviaHandler) ListCategories(c echo.Context) error {
    cats, err := h.categoryList(c)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "categories": cats, "total_categories": len(cats)})
}

// page loads one page of questions; an empty page is a 404.
func (h *TriviaHandler) page(c echo.Context, categoryID int64) ([]model.Question, int, error) {
    p, err := queryPage(c)
    if err != nil {
        return nil, 0, err
    }
    items, total, err := h.Questions.Page(c.Request().Context(), repository.QuestionPage{
        CategoryID: categoryID, Page: p, PerPage: h.PerPage,
    })
    if err != nil {
        return nil, 0, err
    }
    if len(items) == 0 {
        return nil, 0, fmt.Errorf("questions page %d %w", p, apperr.ErrNotFound)
    }
    return items, total, nil
}

// ListQuestions lists questions newest first, h.PerPage per page.
func (h *TriviaHandler) ListQuestions(c echo.Context) error {
    items, total, err := h.page(c, 0)
    if err != nil {
        return err
    }
    cats, err := h.categoryList(c)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":          true,
        "questions":        questionsJSON(items),
        "total_questions":  total,
        "categories":       cats,
        "current_category": nil,
    })
}

// CategoryQuestions lists the questions of one category.
func (h *TriviaHandler) CategoryQuestions(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    cat, err := h.Categories.GetByID(c.Request().Context(), id)
    if err != nil {
        return err
    }
    items, total, err := h.page(c, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":          true,
        "questions":        questionsJSON(items),
        "total_questions":  total,
        "current_category": cat.Type,
    })
}

// CreateQuestion stores a new question.
func (h *TriviaHandler) CreateQuestion(c echo.Context) error {
    var req questionRequest
    if err := bindValid(c, &req); err != nil {
        return err
    }
    q := &model.Question{Text: req.Question, Answer: req.Answer, CategoryID: req.Category, Difficulty: req.Difficulty}
    if err := h.Questions.Create(c.Request().Context(), q); err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "created": q.ID})
}

// DeleteQuestion removes a question.
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    if err := h.Questions.Delete(c.Request().Context(), id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}

// SearchQuestions matches question text case-insensitively.  No match
// is still a 200.
func (h *TriviaHandler) SearchQuestions(c echo.Context) error {
    var req questionSearchRequest
    if err := c.Bind(&req); err != nil {
        return err
    }
    h.Metrics.Search("questions")
    res, err := search.Run[model.Question](c.Request().Context(), h.Questions, req.SearchTerm)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":          true,
        "questions":        questionsJSON(res.Items),
        "total_questions":  res.Count,
        "current_category": nil,
    })
}

// Quiz returns a random question the client has not seen yet, or a null
// question once the pool is exhausted.
func (h *TriviaHandler) Quiz(c echo.Context) error {
    var req quiz.Request
    if err := c.Bind(&req); err != nil {
        return err
    }
    q, err := h.Selector.NextFor(c.Request().Context(), req)
    if err != nil {
        return err
    }
    h.Metrics.QuizPick(q == nil)
    if q == nil {
        return c.JSON(http.StatusOK, echo.Map{"success": true, "question": nil})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "question": toQuestionJSON(*q)})
}
