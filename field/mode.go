package field

type Mode int

const (
	Uncontrolled Mode = iota
	ControlledIdle
	ControlledEditing
)

func (m Mode) String() string {
	switch m {
	case Uncontrolled:
		return "uncontrolled"
	case ControlledIdle:
		return "controlled_idle"
	case ControlledEditing:
		return "controlled_editing"
	default:
		return "unknown"
	}
}

func (m Mode) Controlled() bool { return m == ControlledIdle || m == ControlledEditing }
