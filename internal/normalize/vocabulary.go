package normalize

// synonymMap folds construction-trade surface forms to a canonical root.
// Folding happens before suffix stripping, so plural and gerund forms that
// need a non-mechanical root ("dig" -> "excavate") are listed explicitly.
var synonymMap = map[string]string{
	"bricks":       "brick",
	"brickwork":    "brick",
	"blocks":       "brick",
	"blockwork":    "brick",
	"cement":       "concrete",
	"concrete":     "concrete",
	"footing":      "foundation",
	"footings":     "foundation",
	"excavation":   "excavate",
	"excavations":  "excavate",
	"excavate":     "excavate",
	"dig":          "excavate",
	"digging":      "excavate",
	"installation": "install",
	"installing":   "install",
	"installed":    "install",
	"demolition":   "demolish",
	"demolish":     "demolish",
	"demolishing":  "demolish",
	"remove":       "demolish",
	"supply":       "provide",
	"supplies":     "provide",
	"providing":    "provide",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "for": {},
	"on": {}, "at": {}, "by": {}, "from": {}, "with": {}, "a": {},
	"an": {}, "be": {}, "is": {}, "are": {}, "as": {}, "it": {},
	"its": {}, "into": {}, "or": {},
}
