package domain

// ProcessingState is the run lifecycle state. It is mutated only through
// the lifecycle service's transition API.
type ProcessingState string

const (
	StateIdle    ProcessingState = "idle"
	StateRunning ProcessingState = "running"
	StatePaused  ProcessingState = "paused"
	StateStopped ProcessingState = "stopped"
)
