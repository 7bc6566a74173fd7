package orders

// Phase tracks a placement through its lifecycle. Failed is reachable from
// every non-terminal phase.
type Phase string

const (
	PhaseReceived     Phase = "RECEIVED"
	PhaseAggregating  Phase = "AGGREGATING"
	PhaseReserving    Phase = "RESERVING"
	PhasePersisting   Phase = "PERSISTING"
	PhaseCartClearing Phase = "CART_CLEARING"
	PhaseCompleted    Phase = "COMPLETED"
	PhaseFailed       Phase = "FAILED"
)

var validNext = map[Phase]map[Phase]bool{
	PhaseReceived:     {PhaseAggregating: true, PhaseFailed: true},
	PhaseAggregating:  {PhaseReserving: true, PhaseFailed: true},
	PhaseReserving:    {PhasePersisting: true, PhaseFailed: true},
	PhasePersisting:   {PhaseCartClearing: true, PhaseFailed: true},
	PhaseCartClearing: {PhaseCompleted: true, PhaseFailed: true},
	PhaseCompleted:    {},
	PhaseFailed:       {},
}

func CanTransition(from, to Phase) bool {
	return validNext[from][to]
}
