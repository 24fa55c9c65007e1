package review

import "fmt"

// StateDirName is the hidden directory inside a review root that holds the
// apply lock and the pending-marks database.
const StateDirName = ".centerview"

// Label is one of the two classification categories.
type Label string

const (
	LabelCenter    Label = "center"
	LabelNotCenter Label = "not_center"
)

// Other returns the opposite label.
func (l Label) Other() Label {
	if l == LabelCenter {
		return LabelNotCenter
	}
	return LabelCenter
}

// Valid reports whether the label is one of the two known categories.
func (l Label) Valid() bool {
	return l == LabelCenter || l == LabelNotCenter
}

func (l Label) String() string { return string(l) }

// ParseLabel converts user input into a Label.
func ParseLabel(value string) (Label, error) {
	switch Label(value) {
	case LabelCenter:
		return LabelCenter, nil
	case LabelNotCenter:
		return LabelNotCenter, nil
	default:
		return "", fmt.Errorf("unknown label %q (expected %q or %q)", value, LabelCenter, LabelNotCenter)
	}
}

// LabelDirs maps labels onto the configurable category directory names.
type LabelDirs struct {
	Center    string
	NotCenter string
}

// Dir returns the directory name for the given label.
func (d LabelDirs) Dir(label Label) string {
	if label == LabelCenter {
		return d.Center
	}
	return d.NotCenter
}
