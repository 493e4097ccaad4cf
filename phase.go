package main

type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhasePlaying    Phase = "playing"
	PhaseEnding     Phase = "ending"
	PhaseVoting     Phase = "voting"
	PhaseResolved   Phase = "resolved"
	PhaseTerminated Phase = "terminated"
)

var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:    {PhasePlaying, PhaseTerminated},
	PhasePlaying:  {PhaseEnding, PhaseVoting, PhaseTerminated},
	PhaseEnding:   {PhaseVoting, PhaseTerminated},
	PhaseVoting:   {PhaseResolved, PhaseTerminated},
	PhaseResolved: {PhaseLobby, PhaseTerminated},
}

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo reports whether the room may move from p to target.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, allowed := range phaseTransitions[p] {
		if allowed == target {
			return true
		}
	}
	return false
}
