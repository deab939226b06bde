package matching

// MaxExpansions bounds the term set returned by Expand, including the
// original term.
const MaxExpansions = 10

// synonymSet is one candidate expansion for a term. When context is
// non-empty, the set only applies if the surrounding query tokens
// overlap it; an empty context makes the set the unconditional default.
type synonymSet struct {
	context []string
	terms   []string
}

// synonymTable is the curated domain dictionary. Keys are stemmed,
// normalised terms. Declaration order within a key is the
// deterministic tie-break between candidate sets.
var synonymTable = map[string][]synonymSet{
	// Documents and paperwork
	"receipt":      {{terms: []string{"invoice", "bill", "purchase", "payment"}}},
	"invoice":      {{terms: []string{"receipt", "bill", "statement"}}},
	"bill":         {{terms: []string{"receipt", "invoice", "statement", "charge"}}},
	"ticket":       {{terms: []string{"pass", "admission", "stub", "boarding"}}},
	"document":     {{terms: []string{"file", "paper", "form", "record"}}},
	"form":         {{terms: []string{"document", "application", "paperwork"}}},
	"contract":     {{terms: []string{"agreement", "document", "terms"}}},
	"statement":    {{terms: []string{"bill", "summary", "account"}}},
	"confirmation": {{terms: []string{"receipt", "booking", "reservation"}}},
	"note":         {{terms: []string{"memo", "reminder", "message"}}},
	"card":         {{terms: []string{"credit", "debit", "membership"}}},
	"coupon":       {{terms: []string{"voucher", "discount", "promo", "code"}}},
	"voucher":      {{terms: []string{"coupon", "discount", "credit"}}},

	// Imagery
	"screenshot": {{terms: []string{"capture", "screengrab", "snap", "image"}}},
	"photo":      {{terms: []string{"picture", "image", "shot", "snapshot"}}},
	"picture":    {{terms: []string{"photo", "image", "shot"}}},
	"image":      {{terms: []string{"photo", "picture", "graphic"}}},
	"chart":      {{terms: []string{"graph", "diagram", "plot", "figure"}}},
	"map":        {{terms: []string{"directions", "route", "location"}}},
	"qr":         {{terms: []string{"barcode", "code", "scan"}}},

	// Money and finance
	"payment": {{terms: []string{"transaction", "charge", "transfer", "purchase"}}},
	"price":   {{terms: []string{"cost", "amount", "total", "fee"}}},
	"refund":  {{terms: []string{"return", "reimbursement", "credit"}}},
	"money":   {{terms: []string{"cash", "payment", "funds"}}},
	"bank": {
		{
			context: []string{"money", "account", "card", "payment", "statement", "transfer", "balance"},
			terms:   []string{"account", "statement", "balance", "transaction"},
		},
	},
	"salary": {{terms: []string{"pay", "wage", "income", "payslip"}}},
	"tax":    {{terms: []string{"irs", "return", "deduction", "filing"}}},

	// Travel
	"flight":      {{terms: []string{"plane", "airline", "boarding", "trip"}}},
	"hotel":       {{terms: []string{"accommodation", "lodging", "motel", "stay", "booking"}}},
	"booking":     {{terms: []string{"reservation", "confirmation", "itinerary"}}},
	"reservation": {{terms: []string{"booking", "confirmation"}}},
	"trip":        {{terms: []string{"travel", "journey", "vacation", "holiday"}}},
	"train":       {{terms: []string{"rail", "railway", "metro", "subway"}}},
	"taxi":        {{terms: []string{"cab", "uber", "lyft", "ride"}}},
	"luggage":     {{terms: []string{"baggage", "suitcase", "bag"}}},

	// Food
	"restaurant": {{terms: []string{"cafe", "diner", "eatery", "bistro"}}},
	"food":       {{terms: []string{"meal", "dish", "cuisine", "dinner"}}},
	"coffee":     {{terms: []string{"espresso", "latte", "cappuccino", "cafe"}}},
	"menu":       {{terms: []string{"food", "dishes", "restaurant"}}},
	"grocery":    {{terms: []string{"supermarket", "market", "store", "food"}}},

	// Clothing and shopping
	"dress":    {{terms: []string{"gown", "outfit", "clothing", "apparel"}}},
	"shirt":    {{terms: []string{"top", "blouse", "tee", "clothing"}}},
	"shoe":     {{terms: []string{"sneaker", "boot", "footwear", "trainer"}}},
	"jacket":   {{terms: []string{"coat", "blazer", "outerwear"}}},
	"bag":      {{terms: []string{"purse", "handbag", "backpack", "tote"}}},
	"clothing": {{terms: []string{"apparel", "clothes", "outfit", "garment"}}},
	"shopping": {{terms: []string{"purchase", "order", "buying", "cart"}}},
	"order":    {{terms: []string{"purchase", "shipment", "delivery", "package"}}},
	"delivery": {{terms: []string{"shipping", "package", "parcel", "order"}}},
	"sale":     {{terms: []string{"discount", "deal", "offer", "promotion"}}},

	// Communication
	"message":  {{terms: []string{"text", "chat", "dm", "conversation"}}},
	"email":    {{terms: []string{"mail", "message", "inbox"}}},
	"call":     {{terms: []string{"phone", "voicemail", "dial"}}},
	"meeting":  {{terms: []string{"appointment", "call", "calendar", "event"}}},
	"event":    {{terms: []string{"meeting", "appointment", "calendar"}}},
	"address":  {{terms: []string{"location", "street", "place"}}},
	"contact":  {{terms: []string{"phone", "email", "number"}}},
	"password": {{terms: []string{"login", "credential", "passcode", "pin"}}},
	"wifi":     {{terms: []string{"network", "internet", "password"}}},

	// Health
	"doctor":       {{terms: []string{"physician", "clinic", "appointment", "medical"}}},
	"prescription": {{terms: []string{"medication", "medicine", "pharmacy", "rx"}}},
	"insurance":    {{terms: []string{"policy", "coverage", "claim"}}},
	"workout":      {{terms: []string{"exercise", "fitness", "gym", "training"}}},

	// Vehicles
	"car":     {{terms: []string{"vehicle", "auto", "automobile"}}},
	"parking": {{terms: []string{"garage", "lot", "permit"}}},
	"gas":     {{terms: []string{"fuel", "petrol", "station"}}},

	// Work and study
	"work":       {{terms: []string{"job", "office", "project", "task"}}},
	"schedule":   {{terms: []string{"calendar", "timetable", "agenda", "plan"}}},
	"deadline":   {{terms: []string{"due", "date", "schedule"}}},
	"recipe":     {{terms: []string{"cooking", "instructions", "ingredients", "dish"}}},
	"homework":   {{terms: []string{"assignment", "study", "school"}}},
	"lecture":    {{terms: []string{"class", "course", "seminar", "talk"}}},
	"conference": {{terms: []string{"meeting", "summit", "convention"}}},
}

// SynonymExpander maps a normalised term to a bounded set of related
// terms using the curated dictionary, disambiguated by surrounding
// query context.
type SynonymExpander struct{}

// NewSynonymExpander creates an expander over the built-in dictionary.
func NewSynonymExpander() *SynonymExpander {
	return &SynonymExpander{}
}

// Expand returns up to MaxExpansions related terms for term, always
// including the original first. When a term has multiple candidate
// sets, the set whose context best overlaps the supplied context
// tokens wins; a contextual set with no overlap is not applied, so an
// ambiguous term with no matching context falls back to the literal
// term only. Same (term, context) always yields the same ordered list.
func (e *SynonymExpander) Expand(term string, context []string) []string {
	norm := Stem(Normalize(term))
	if norm == "" {
		return nil
	}

	result := []string{norm}
	sets, ok := synonymTable[norm]
	if !ok {
		return result
	}

	contextSet := make(map[string]bool, len(context))
	for _, c := range context {
		contextSet[Stem(Normalize(c))] = true
	}

	best := -1
	bestOverlap := 0
	for i, set := range sets {
		if len(set.context) == 0 {
			// Unconditional default; kept unless a contextual set
			// overlaps better.
			if best == -1 {
				best = i
			}
			continue
		}
		overlap := 0
		for _, hint := range set.context {
			if contextSet[hint] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = i
			bestOverlap = overlap
		}
	}
	if best == -1 {
		return result
	}

	seen := map[string]bool{norm: true}
	for _, syn := range sets[best].terms {
		if len(result) >= MaxExpansions {
			break
		}
		if !seen[syn] {
			seen[syn] = true
			result = append(result, syn)
		}
	}
	return result
}

// DictionarySize returns the number of term-to-synonym mappings in
// the curated table, counting each mapped synonym once.
func DictionarySize() int {
	count := 0
	for _, sets := range synonymTable {
		for _, set := range sets {
			count += len(set.terms)
		}
	}
	return count
}
