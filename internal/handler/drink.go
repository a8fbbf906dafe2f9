package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stagedoor/internal/model"
    "github.com/iliyamo/stagedoor/internal/repository"
)

// DrinkHandler serves the coffee shop menu.  Route registration guards
// everything but List with a permission.
type DrinkHandler struct {
    Drinks *repository.DrinkRepo
}

type ingredientRequest struct {
    Name  string `json:"name" validate:"required"`
    Color string `json:"color" validate:"required"`
    Parts int    `json:"parts" validate:"required,min=1"`
}

type drinkRequest struct {
    Title  string              `json:"title" validate:"required"`
    Recipe []ingredientRequest `json:"recipe" validate:"required,min=1,dive"`
}

// shortIngredient hides the ingredient names from the public menu.
type shortIngredient struct {
    Color string `json:"color"`
    Parts int    `json:"parts"`
}

type drinkShort struct {
    ID     int64             `json:"id"`
    Title  string            `json:"title"`
    Recipe []shortIngredient `json:"recipe"`
}

type drinkLong struct {
    ID     int64              `json:"id"`
    Title  string             `json:"title"`
    Recipe []model.Ingredient `json:"recipe"`
}

func short(d model.Drink) drinkShort {
    out := drinkShort{ID: d.ID, Title: d.Title, Recipe: make([]shortIngredient, 0, len(d.Recipe))}
    for _, i := range d.Recipe {
        out.Recipe = append(out.Recipe, shortIngredient{Color: i.Color, Parts: i.Parts})
    }
    return out
}

func long(d model.Drink) drinkLong {
    return drinkLong{ID: d.ID, Title: d.Title, Recipe: d.Recipe}
}

func (r drinkRequest) recipe() []model.Ingredient {
    out := make([]model.Ingredient, 0, len(r.Recipe))
    for _, i := range r.Recipe {
        out = append(out, model.Ingredient{Name: i.Name, Color: i.Color, Parts: i.Parts})
    }
    return out
}

func drinkRequestFrom(d *model.Drink) drinkRequest {
    req := drinkRequest{Title: d.Title, Recipe: make([]ingredientRequest, 0, len(d.Recipe))}
    for _, i := range d.Recipe {
        req.Recipe = append(req.Recipe, ingredientRequest{Name: i.Name, Color: i.Color, Parts: i.Parts})
    }
    return req
}

// List is the public menu: short recipes only.
func (h *DrinkHandler) List(c echo.Context) error {
    drinks, err := h.Drinks.List(c.Request().Context())
    if err != nil {
        return err
    }
    out := make([]drinkShort, 0, len(drinks))
    for _, d := range drinks {
        out = append(out, short(d))
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "drinks": out})
}

// Detail is the staff menu with full recipes.
func (h *DrinkHandler) Detail(c echo.Context) error {
    drinks, err := h.Drinks.List(c.Request().Context())
    if err != nil {
        return err
    }
    out := make([]drinkLong, 0, len(drinks))
    for _, d := range drinks {
        out = append(out, long(d))
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "drinks": out})
}

// Create adds a drink.  Titles are unique.
func (h *DrinkHandler) Create(c echo.Context) error {
    var req drinkRequest
    if err := bindValid(c, &req); err != nil {
        return err
    }
    d := &model.Drink{Title: req.Title, Recipe: req.recipe()}
    if err := h.Drinks.Create(c.Request().Context(), d); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "drinks": []drinkLong{long(*d)}})
}

// Update patches the title and/or recipe of a drink.
func (h *DrinkHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    cur, err := h.Drinks.GetByID(ctx, id)
    if err != nil {
        return err
    }
    req := drinkRequestFrom(cur)
    if err := bindValid(c, &req); err != nil {
        return err
    }
    d := &model.Drink{ID: id, Title: req.Title, Recipe: req.recipe()}
    if err := h.Drinks.Update(ctx, d); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "drinks": []drinkLong{long(*d)}})
}

// Delete removes a drink.
func (h *DrinkHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    if err := h.Drinks.Delete(c.Request().Context(), id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "delete": id})
}
