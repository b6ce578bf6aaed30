package effect

// BoolSampler is the interface boundary to the external uncertain-sampling
// engine for boolean distributions. The core never samples; it composes
// samplers logically and asks for a point estimate when a decision is
// required.
type BoolSampler interface {
	// And returns a sampler for the conjunction of both distributions.
	And(other BoolSampler) BoolSampler

	// Or returns a sampler for the disjunction of both distributions.
	Or(other BoolSampler) BoolSampler

	// Not returns a sampler for the negation of the distribution.
	Not() BoolSampler

	// Probability returns the estimated P(true).
	Probability() (float64, error)
}

// FloatSampler is the interface boundary for float distributions.
type FloatSampler interface {
	// GreaterThan returns a boolean sampler for P(X > threshold).
	GreaterThan(threshold float64) BoolSampler

	// Mean returns the estimated expectation of the distribution.
	Mean() (float64, error)
}
