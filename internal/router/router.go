package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stagedoor/internal/handler"
	"github.com/iliyamo/stagedoor/internal/metrics"
	"github.com/iliyamo/stagedoor/internal/middleware"
)

// Caching holds the response cache middlewares.  Read wraps cacheable
// GET routes; Purge wraps the writes that invalidate them.  Zero values
// disable caching.
type Caching struct {
	Read  echo.MiddlewareFunc
	Purge echo.MiddlewareFunc
}

func (c Caching) read() []echo.MiddlewareFunc {
	if c.Read == nil {
		return nil
	}
	return []echo.MiddlewareFunc{c.Read}
}

func (c Caching) purge() []echo.MiddlewareFunc {
	if c.Purge == nil {
		return nil
	}
	return []echo.MiddlewareFunc{c.Purge}
}

// pinned applies the read cache only to requests that carry param.
// Without it a detail page splits shows around the current instant and
// must be served fresh.
func pinned(param string, read []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if len(read) == 0 {
		return nil
	}
	mw := read[0]
	return []echo.MiddlewareFunc{func(next echo.HandlerFunc) echo.HandlerFunc {
		cached := mw(next)
		return func(c echo.Context) error {
			if c.QueryParam(param) == "" {
				return next(c)
			}
			return cached(c)
		}
	}}
}

// RegisterRoutes registers the operational endpoints.  /metrics is only
// mounted when m is non-nil.
func RegisterRoutes(e *echo.Echo, db *sql.DB, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health(db))
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterBooking registers the venue, artist and show endpoints under /v1.
func RegisterBooking(e *echo.Echo, v *handler.VenueHandler, a *handler.ArtistHandler, s *handler.ShowHandler, cache Caching) {
	g := e.Group("/v1")
	read, purge := cache.read(), cache.purge()

	g.GET("/venues", v.List, read...)
	g.POST("/venues/search", v.Search)
	g.GET("/venues/:id", v.Get, pinned("as_of", read)...)
	g.POST("/venues", v.Create, purge...)
	g.PUT("/venues/:id", v.Update, purge...)
	g.PATCH("/venues/:id", v.Update, purge...)
	g.DELETE("/venues/:id", v.Delete, purge...)

	g.GET("/artists", a.List, read...)
	g.POST("/artists/search", a.Search)
	g.GET("/artists/:id", a.Get, pinned("as_of", read)...)
	g.POST("/artists", a.Create, purge...)
	g.PUT("/artists/:id", a.Update, purge...)
	g.PATCH("/artists/:id", a.Update, purge...)
	g.DELETE("/artists/:id", a.Delete, purge...)

	g.GET("/shows", s.List, read...)
	g.GET("/shows/search", s.Search)
	g.POST("/shows", s.Create, purge...)
}

// RegisterTrivia registers the trivia endpoints under /v1.
func RegisterTrivia(e *echo.Echo, t *handler.TriviaHandler, cache Caching) {
	g := e.Group("/v1")
	read, purge := cache.read(), cache.purge()

	g.GET("/categories", t.ListCategories, read...)
	g.GET("/categories/:id/questions", t.CategoryQuestions, read...)
	g.GET("/questions", t.ListQuestions, read...)
	g.POST("/questions", t.CreateQuestion, purge...)
	g.DELETE("/questions/:id", t.DeleteQuestion, purge...)
	g.POST("/questions/search", t.SearchQuestions)
	g.POST("/quizzes", t.Quiz)
}

// RegisterCoffee registers the coffee shop endpoints under /v1.  Only the
// short menu is public; the rest needs a bearer token carrying the
// matching permission.
func RegisterCoffee(e *echo.Echo, d *handler.DrinkHandler, jwtSecret string) {
	g := e.Group("/v1")
	auth := middleware.JWTAuth(jwtSecret)

	g.GET("/drinks", d.List)
	g.GET("/drinks-detail", d.Detail, auth, middleware.RequirePermission("get:drinks-detail"))
	g.POST("/drinks", d.Create, auth, middleware.RequirePermission("post:drinks"))
	g.PATCH("/drinks/:id", d.Update, auth, middleware.RequirePermission("patch:drinks"))
	g.DELETE("/drinks/:id", d.Delete, auth, middleware.RequirePermission("delete:drinks"))
}
