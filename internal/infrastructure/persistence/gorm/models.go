// Package gorm provides GORM model definitions and the relational outbound.Store
package gorm

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// UserModel represents the GORM model for back office accounts
type UserModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Roles        StringSlice `gorm:"type:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID                 uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Title              string          `gorm:"type:varchar(255);not null;index"`
	DishType           string          `gorm:"type:varchar(20);not null;index"`
	CostPerPortion     Money           `gorm:"not null;default:0"`
	PricePerPortion    Money           `gorm:"not null;default:0"`
	QuantityPerPortion float64         `gorm:"not null;default:0"`
	CreatedAt          time.Time       `gorm:"index"`
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	// Relationships
	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID"`
}

// IngredientModel represents the GORM model for ingredients
type IngredientModel struct {
	ID                      uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Name                    string          `gorm:"type:varchar(255);not null;index"`
	PricePerMeasuringUnit   Money           `gorm:"not null;default:0"`
	QuantityInMeasuringUnit float64         `gorm:"not null;default:0"`
	RecipeID                uuid.UUID       `gorm:"type:char(36);not null;index"`
	FoodCategoryID          uuid.UUID       `gorm:"type:char(36);not null;index"`
	CreatedAt               time.Time       `gorm:"index"`
	UpdatedAt               time.Time
	DeletedAt               gorm.DeletedAt `gorm:"index"`

	// Relationships
	Recipe       *RecipeModel       `gorm:"foreignKey:RecipeID"`
	FoodCategory *FoodCategoryModel `gorm:"foreignKey:FoodCategoryID"`
}

// FoodCategoryModel represents the GORM model for food categories
type FoodCategoryModel struct {
	ID                               uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name                             string    `gorm:"type:varchar(255);not null;index"`
	QuantityOfAllCategoryIngredients float64   `gorm:"not null;default:0"`
	CreatedAt                        time.Time `gorm:"index"`
	UpdatedAt                        time.Time
	DeletedAt                        gorm.DeletedAt `gorm:"index"`
}

// DailyMenuModel represents the GORM model for daily menus
type DailyMenuModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Date      time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relationships
	Recipes []RecipeModel `gorm:"many2many:daily_menu_recipes;joinForeignKey:DailyMenuID;joinReferences:RecipeID"`
}

// DailyMenuRecipeModel is the join row between a menu and a selected recipe
type DailyMenuRecipeModel struct {
	DailyMenuID uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID    uuid.UUID `gorm:"type:char(36);primaryKey;index"`
}

// Money is a currency column. SQLite would coerce a decimal column to REAL
// and lose digits, so there the amount is stored as its exact text.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps amount for storage
func NewMoney(amount decimal.Decimal) Money {
	return Money{Decimal: amount}
}

// GormDBDataType implements gorm's migrator.GormDataTypeInterface
func (Money) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "decimal(12,4)"
}

// Scan implements the sql.Scanner interface
func (m *Money) Scan(value interface{}) error {
	return m.Decimal.Scan(value)
}

// Value implements the driver.Valuer interface
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.String(), nil
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&FoodCategoryModel{},
		&RecipeModel{},
		&IngredientModel{},
		&DailyMenuModel{},
		&DailyMenuRecipeModel{},
	}
}

// SetupJoinTables registers the custom join model for menu recipes. It must
// run before AutoMigrate and before the first query that preloads Recipes.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&DailyMenuModel{}, "Recipes", &DailyMenuRecipeModel{})
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (FoodCategoryModel) TableName() string {
	return "food_categories"
}

func (DailyMenuModel) TableName() string {
	return "daily_menus"
}

func (DailyMenuRecipeModel) TableName() string {
	return "daily_menu_recipes"
}
