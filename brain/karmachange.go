package brain

// KarmaChange is a change applied to the karma of a thing
type KarmaChange int

// Karma changes
const (
	Increment KarmaChange = iota
	Decrement
)

// karmaOperators maps the karma operators to their change. Phones autocorrect "--" into an em dash
var karmaOperators = map[string]KarmaChange{
	"++": Increment,
	"--": Decrement,
	"—":  Decrement,
}

// ParseKarmaChange returns the change of a karma operator ("++", "--" or "—")
func ParseKarmaChange(op string) (change KarmaChange, ok bool) {
	change, ok = karmaOperators[op]

	return change, ok
}

// Delta returns the value added to a karma by the change
func (c KarmaChange) Delta() int {
	if c == Increment {
		return 1
	}

	return -1
}

func (c KarmaChange) String() string {
	if c == Increment {
		return "++"
	}

	return "--"
}
