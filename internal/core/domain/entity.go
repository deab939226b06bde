package domain

// EntityType classifies an extracted span of meaning.
// The set is closed; unrecognised spans fall back to EntityUnknown.
type EntityType string

// Entity types recognised by the extractor.
const (
	EntityPerson       EntityType = "person"
	EntityPlace        EntityType = "place"
	EntityOrganization EntityType = "organization"
	EntityColor        EntityType = "color"
	EntityObject       EntityType = "object"
	EntityDocument     EntityType = "document"
	EntityPhone        EntityType = "phone"
	EntityEmail        EntityType = "email"
	EntityURL          EntityType = "url"
	EntityDate         EntityType = "date"
	EntityTime         EntityType = "time"
	EntityCurrency     EntityType = "currency"
	EntityAddress      EntityType = "address"
	EntityProduct      EntityType = "product"
	EntityBrand        EntityType = "brand"
	EntityQuantity     EntityType = "quantity"
	EntityUnknown      EntityType = "unknown"
)

// IsValid returns true if the entity type is recognised.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityPerson, EntityPlace, EntityOrganization, EntityColor,
		EntityObject, EntityDocument, EntityPhone, EntityEmail,
		EntityURL, EntityDate, EntityTime, EntityCurrency,
		EntityAddress, EntityProduct, EntityBrand, EntityQuantity,
		EntityUnknown:
		return true
	default:
		return false
	}
}

// IsStructured returns true for pattern-matched types with
// format-specific validation. Structured types take precedence
// over tagger output when spans overlap.
func (t EntityType) IsStructured() bool {
	switch t {
	case EntityPhone, EntityEmail, EntityURL, EntityCurrency,
		EntityDate, EntityTime:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t EntityType) String() string {
	return string(t)
}

// ExtractedEntity is a typed, extracted span of meaning from text.
type ExtractedEntity struct {
	// Type classifies the entity.
	Type EntityType

	// Value is the canonicalised text span (e.g., digits-only phone).
	Value string

	// Start is the byte offset of the span in the source text.
	Start int

	// End is the byte offset one past the span in the source text.
	End int

	// Confidence is the extraction confidence in [0,1].
	Confidence float64
}

// Overlaps returns true if the two spans share at least one byte.
func (e ExtractedEntity) Overlaps(other ExtractedEntity) bool {
	return e.Start < other.End && other.Start < e.End
}

// MeanEntityConfidence returns the mean confidence of the given
// entities, or 1.0 for an empty list. An empty list means no entities
// were expected (pure temporal or pure keyword queries), which must
// not drag down the overall query confidence.
func MeanEntityConfidence(entities []ExtractedEntity) float64 {
	if len(entities) == 0 {
		return 1.0
	}
	var sum float64
	for _, e := range entities {
		sum += e.Confidence
	}
	return sum / float64(len(entities))
}
