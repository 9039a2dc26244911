package service

import (
	"strings"

	"intake/internal/domain/entity"
)

// ratingVocabulary maps the survey's free-text answers onto the 1..4 scale.
var ratingVocabulary = map[string]int{
	"poor":  1,
	"fair":  2,
	"good":  3,
	"great": 4,
}

// ConvertRating maps a raw rating cell to its integer value. Missing values
// become 0 (unanswered); anything present but unrecognized becomes 1, the
// floor of the scale.
func ConvertRating(value string) int {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return 0
	}
	if rating, ok := ratingVocabulary[cleaned]; ok {
		return rating
	}

	return 1
}

// Canonical "where did you hear about us" categories.
const (
	SourcePassingBy        = "Passing by"
	SourceFriendsAndFamily = "Friends and Family"
	SourceSocialMedia      = "Social Media"
)

// NormalizeFeedbackSource maps free text onto the closed category set.
// Unrecognized values are discarded to empty rather than guessed at.
func NormalizeFeedbackSource(source string) string {
	switch strings.TrimSpace(source) {
	case "Passing by":
		return SourcePassingBy
	case "Friends and Family", "Family and Friends":
		return SourceFriendsAndFamily
	case "Facebook", "Instagram", "Ads", "Social Media":
		return SourceSocialMedia
	default:
		return ""
	}
}

// orderTypeVocabulary is the fixed lookup from POS free text to the order
// type enum. Matching is case-sensitive and exact; unrecognized strings are
// skipped by the pipeline, never defaulted silently.
var orderTypeVocabulary = map[string]entity.OrderType{
	"Dine-In":   entity.OrderTypeDineIn,
	"Eat in":    entity.OrderTypeDineIn,
	"Delivery":  entity.OrderTypeDelivery,
	"Takeaway":  entity.OrderTypeTakeAway,
	"Take away": entity.OrderTypeTakeAway,
}

// MapOrderType resolves a raw POS order-type string to the enum.
func MapOrderType(raw string) (entity.OrderType, bool) {
	orderType, ok := orderTypeVocabulary[raw]

	return orderType, ok
}
