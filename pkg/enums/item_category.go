package enums

import "fmt"

// ItemCategory classifies rental inventory.
type ItemCategory string

const (
	ItemCategoryBounceHouse     ItemCategory = "bounce_house"
	ItemCategoryWaterSlide      ItemCategory = "water_slide"
	ItemCategoryComboUnit       ItemCategory = "combo_unit"
	ItemCategoryObstacleCourse  ItemCategory = "obstacle_course"
	ItemCategoryInteractiveGame ItemCategory = "interactive_game"
	ItemCategoryTentCanopy      ItemCategory = "tent_canopy"
	ItemCategoryTableChair      ItemCategory = "table_chair"
	ItemCategoryConcession      ItemCategory = "concession"
	ItemCategoryOther           ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryBounceHouse,
	ItemCategoryWaterSlide,
	ItemCategoryComboUnit,
	ItemCategoryObstacleCourse,
	ItemCategoryInteractiveGame,
	ItemCategoryTentCanopy,
	ItemCategoryTableChair,
	ItemCategoryConcession,
	ItemCategoryOther,
}

var itemCategoryLabels = map[ItemCategory]string{
	ItemCategoryBounceHouse:     "Bounce Houses",
	ItemCategoryWaterSlide:      "Water Slides",
	ItemCategoryComboUnit:       "Combo Units",
	ItemCategoryObstacleCourse:  "Obstacle Courses",
	ItemCategoryInteractiveGame: "Interactive Games",
	ItemCategoryTentCanopy:      "Tents & Canopies",
	ItemCategoryTableChair:      "Tables & Chairs",
	ItemCategoryConcession:      "Concessions",
	ItemCategoryOther:           "Other",
}

func (c ItemCategory) String() string {
	return string(c)
}

// Label returns the display label pushed to the booking engine.
func (c ItemCategory) Label() string {
	if label, ok := itemCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
