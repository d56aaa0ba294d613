package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixDiscount CachePrefix = "discount:"
	CachePrefixCatalog  CachePrefix = "catalog:"
)

// CacheKeyDiscountGeneration holds the id of the last committed batch.
// It sits outside the discount prefix so invalidation keeps it.
const CacheKeyDiscountGeneration = "discount-generation"

const (
	// MaxCommentLength matches the comments.text column size.
	MaxCommentLength = 2000

	// DiscountDisplayScale converts stored discount values for the JSON API.
	DiscountDisplayScale = 100
)
