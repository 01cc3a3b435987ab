package vocab

import (
	"fmt"
	"strings"
)

// CallType is the call number category used to shelve a title.
type CallType string

const (
	CallPicture   CallType = "pic"
	CallEasy      CallType = "eas"
	CallFiction   CallType = "fic"
	CallMystery   CallType = "mys"
	CallRomance   CallType = "rom"
	CallSciFi     CallType = "sfn"
	CallWestern   CallType = "wes"
	CallUrban     CallType = "urb"
	CallGraphic   CallType = "gfi"
	CallBiography CallType = "bio"
	CallDewey     CallType = "dew"
	CallNeutral   CallType = "neu"
)

// CallTypes lists every call type in report order.
var CallTypes = []CallType{
	CallPicture, CallEasy, CallFiction, CallMystery, CallRomance, CallSciFi,
	CallWestern, CallUrban, CallGraphic, CallBiography, CallDewey, CallNeutral,
}

func ParseCallType(s string) (CallType, error) {
	code := CallType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range CallTypes {
		if t == code {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCallType, s)
}

// IsGenreFiction reports whether the type is fiction or one of its genres.
func (t CallType) IsGenreFiction() bool {
	switch t {
	case CallFiction, CallMystery, CallRomance, CallSciFi, CallWestern, CallUrban, CallGraphic:
		return true
	}
	return false
}

// CallLabel is a finer shelving label layered on top of a call type.
// The zero value means no label.
type CallLabel string

const (
	LabelNone            CallLabel = ""
	LabelLargePrint      CallLabel = "lgp"
	LabelBoardBook       CallLabel = "bbk"
	LabelHoliday         CallLabel = "hol"
	LabelYoungReader     CallLabel = "yrd"
	LabelClassics        CallLabel = "cla"
	LabelBilingual       CallLabel = "bil"
	LabelReadAlong       CallLabel = "ral"
	LabelLiteracyFiction CallLabel = "lit"
)

// CallLabels lists every non-empty label in report order.
var CallLabels = []CallLabel{
	LabelLargePrint, LabelBoardBook, LabelHoliday, LabelYoungReader,
	LabelClassics, LabelBilingual, LabelReadAlong, LabelLiteracyFiction,
}

func ParseCallLabel(s string) (CallLabel, error) {
	code := CallLabel(strings.ToLower(strings.TrimSpace(s)))
	if code == LabelNone {
		return LabelNone, nil
	}
	for _, l := range CallLabels {
		if l == code {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCallLabel, s)
}
