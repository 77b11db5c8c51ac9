package sym

// Label generator seeds are module-scoped and monotonic. Ternary labels and
// flow labels use separate counters so their generated names never clash.

// GetLabelGenerator returns the current ternary label seed.
func (t *Table) GetLabelGenerator() int64 {
	return t.labelSeed
}

// IncreaseLabelGenerator advances the ternary label seed.
func (t *Table) IncreaseLabelGenerator() {
	t.labelSeed++
}

// GetFlowLabelGenerator returns the current flow label seed.
func (t *Table) GetFlowLabelGenerator() int64 {
	return t.flowLabelSeed
}

// IncreaseFlowLabelGenerator advances the flow label seed.
func (t *Table) IncreaseFlowLabelGenerator() {
	t.flowLabelSeed++
}
