package game

import (
	"fmt"
	"strings"
)

// Phase identifies the stage of a round
type Phase int

const (
	PhaseBet Phase = iota
	PhaseInsurance
	PhasePlayerTurn
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBet:
		return "bet"
	case PhaseInsurance:
		return "insurance"
	case PhasePlayerTurn:
		return "player"
	case PhaseEnd:
		return "end"
	default:
		return "?"
	}
}

// Action is a decision the player makes on their turn
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
	Split
	Surrender
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case DoubleDown:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return "?"
	}
}

// ParseAction parses an action name. Single letter shortcuts are accepted.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hit", "h":
		return Hit, nil
	case "stand", "s":
		return Stand, nil
	case "double", "doubledown", "d":
		return DoubleDown, nil
	case "split", "p":
		return Split, nil
	case "surrender", "r":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
