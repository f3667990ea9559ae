package coursechat

// Usage tracks token consumption for a single provider call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add accumulates another call's usage into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
