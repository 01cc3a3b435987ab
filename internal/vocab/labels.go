package vocab

// Human readable names used by reports. The matching core only compares
// codes and never reads these tables.

var CallTypeNames = map[CallType]string{
	CallPicture:   "picture book",
	CallEasy:      "easy reader",
	CallFiction:   "fiction",
	CallMystery:   "mystery",
	CallRomance:   "romance",
	CallSciFi:     "science fiction",
	CallWestern:   "western",
	CallUrban:     "urban fiction",
	CallGraphic:   "graphic fiction",
	CallBiography: "biography",
	CallDewey:     "dewey non-fiction",
	CallNeutral:   "neutral",
}

var CallLabelNames = map[CallLabel]string{
	LabelNone:            "",
	LabelLargePrint:      "large print",
	LabelBoardBook:       "board book",
	LabelHoliday:         "holiday",
	LabelYoungReader:     "young reader",
	LabelClassics:        "classics",
	LabelBilingual:       "bilingual",
	LabelReadAlong:       "read along",
	LabelLiteracyFiction: "literacy fiction",
}

var AudienceNames = map[Audience]string{
	AudienceUnknown:    "unknown",
	AudienceAdult:      "adult",
	AudienceYoungAdult: "young adult",
	AudienceJuvenile:   "juvenile",
}

var SystemNames = map[System]string{
	SystemNYP: "New York Public Library",
	SystemBPL: "Brooklyn Public Library",
}
