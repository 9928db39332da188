package player

// Position represents rugby league position categories used in squad rules.
type Position string

const (
	PositionFullBack     Position = "Full Back"
	PositionWinger       Position = "Winger"
	PositionCentre       Position = "Centre"
	PositionStandOff     Position = "Stand Off"
	PositionScrumHalf    Position = "Scrum Half"
	PositionProp         Position = "Prop"
	PositionHooker       Position = "Hooker"
	PositionSecondRow    Position = "Second Row"
	PositionLooseForward Position = "Loose Forward"
)

var AllPositions = map[Position]struct{}{
	PositionFullBack:     {},
	PositionWinger:       {},
	PositionCentre:       {},
	PositionStandOff:     {},
	PositionScrumHalf:    {},
	PositionProp:         {},
	PositionHooker:       {},
	PositionSecondRow:    {},
	PositionLooseForward: {},
}

// Slot is the logical slot a position fills for squad-composition quotas.
// Stand Off and Scrum Half both fill the Half Back slot; every other
// position maps to itself.
type Slot string

const (
	SlotFullBack     Slot = "Full Back"
	SlotWinger       Slot = "Winger"
	SlotCentre       Slot = "Centre"
	SlotHalfBack     Slot = "Half Back"
	SlotProp         Slot = "Prop"
	SlotHooker       Slot = "Hooker"
	SlotSecondRow    Slot = "Second Row"
	SlotLooseForward Slot = "Loose Forward"
)

// SlotForPosition maps a raw position to its squad-composition slot.
// It is deliberately separate from InterchangeableForTransfer: the two
// rules agree on Half Backs today but serve different checks.
func SlotForPosition(p Position) (Slot, bool) {
	switch p {
	case PositionStandOff, PositionScrumHalf:
		return SlotHalfBack, true
	case PositionFullBack:
		return SlotFullBack, true
	case PositionWinger:
		return SlotWinger, true
	case PositionCentre:
		return SlotCentre, true
	case PositionProp:
		return SlotProp, true
	case PositionHooker:
		return SlotHooker, true
	case PositionSecondRow:
		return SlotSecondRow, true
	case PositionLooseForward:
		return SlotLooseForward, true
	default:
		return "", false
	}
}

// InterchangeableForTransfer reports whether a player in position out may be
// swapped for a player in position in. Positions must match exactly, except
// that Stand Off and Scrum Half trade freely with each other.
func InterchangeableForTransfer(out, in Position) bool {
	if out == in {
		return true
	}

	return isHalfBack(out) && isHalfBack(in)
}

func isHalfBack(p Position) bool {
	return p == PositionStandOff || p == PositionScrumHalf
}
