package inference

// MinNameTokens is the number of tokens a name must already hold before a
// sampled terminator is accepted. The comparison is strict: a name ends only
// once it has more than MinNameTokens tokens.
const MinNameTokens = 3

// acceptTerminator reports whether a terminator sampled after n recorded
// tokens ends the name.
func acceptTerminator(n int) bool {
	return n > MinNameTokens
}
