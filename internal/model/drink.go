package model

// Ingredient is one layer of a drink recipe.  Parts is the relative
// amount used to draw the drink graphic.
type Ingredient struct {
    Name  string `json:"name"`
    Color string `json:"color"`
    Parts int    `json:"parts"`
}

// Drink is a coffee shop menu item.  Recipe is persisted as a JSON
// array in the `recipe` column; the JSON tags on Ingredient define that
// stored format.
type Drink struct {
    ID     int64        // drinks.id
    Title  string       // drinks.title (unique)
    Recipe []Ingredient // drinks.recipe (JSON)
}
