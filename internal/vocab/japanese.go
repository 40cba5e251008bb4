package vocab

// japaneseCities is the character table of the bundled Japanese city model,
// in training order. Index 0 is the terminator.
var japaneseCities = []string{
	".", "-",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "r", "s", "t", "u", "w", "y", "z",
	"ō", "ū",
}

// Japanese returns the vocabulary of the bundled Japanese city model.
func Japanese() *Vocabulary {
	v, err := New(japaneseCities)
	if err != nil {
		// The table above is a non-empty literal.
		panic(err)
	}
	return v
}
