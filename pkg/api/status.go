package api

import "fmt"

// Status is the outcome of evaluating a node.
type Status uint8

const (
	StatusFailure Status = iota
	StatusRunning
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusFailure:
		return "FAILURE"
	case StatusRunning:
		return "RUNNING"
	case StatusSuccess:
		return "SUCCESS"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Terminal reports whether s is SUCCESS or FAILURE.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s > StatusSuccess {
		return nil, fmt.Errorf("api: invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(text string) (Status, error) {
	switch text {
	case "FAILURE":
		return StatusFailure, nil
	case "RUNNING":
		return StatusRunning, nil
	case "SUCCESS":
		return StatusSuccess, nil
	default:
		return 0, fmt.Errorf("api: unknown status %q", text)
	}
}

// Kind tags how a node relates to its children.
type Kind uint8

const (
	// KindLeaf nodes have no children.
	KindLeaf Kind = iota
	// KindDecorator nodes have exactly one child.
	KindDecorator
	// KindComposite nodes have one or more children.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindDecorator:
		return "decorator"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
