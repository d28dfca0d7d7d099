package entity

// MatchKind matcher natijasi turi
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchDefinite
	MatchClarify
	MatchEmptyCatalog
)

func (k MatchKind) String() string {
	switch k {
	case MatchDefinite:
		return "match"
	case MatchClarify:
		return "clarify"
	case MatchEmptyCatalog:
		return "empty"
	default:
		return "no_match"
	}
}

// MatchSource natija qayerdan olingani
type MatchSource string

const (
	SourcePhotoIndex MatchSource = "photo_index"
	SourceSubstring  MatchSource = "substring"
	SourceTokens     MatchSource = "tokens"
	SourceModel      MatchSource = "model"
)

// MatchResult katalog bilan moslashtirish natijasi. Saqlanmaydi.
type MatchResult struct {
	Kind       MatchKind
	Item       CatalogItem
	Confidence float64
	Source     MatchSource
	Question   string
}

// DecisionAction modelning qaror turi
type DecisionAction string

const (
	ActionMatch   DecisionAction = "match"
	ActionClarify DecisionAction = "clarify"
	ActionNoMatch DecisionAction = "no_match"
)

// ModelDecision modeldan kelgan va tekshiruvdan o'tgan qaror
type ModelDecision struct {
	Action     DecisionAction
	ItemID     string
	Confidence float64
	Question   string
	Reason     string
}
