package order

import (
	"strings"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// notePredicate tests a lower-cased vendor note.
type notePredicate func(note string) bool

func has(sub string) notePredicate {
	return func(note string) bool {
		return strings.Contains(note, sub)
	}
}

// hasExcept matches notes containing sub unless they also contain one of
// the longer codes that happen to include it.
func hasExcept(sub string, except ...string) notePredicate {
	return func(note string) bool {
		if !strings.Contains(note, sub) {
			return false
		}
		for _, e := range except {
			if strings.Contains(note, e) {
				return false
			}
		}
		return true
	}
}

type labelRule struct {
	label vocab.CallLabel
	match notePredicate
}

type typeRule struct {
	callType vocab.CallType
	match    notePredicate
}

// Rule lists are evaluated top to bottom and the first match wins. Their
// order is part of the rule set: do not sort them.

var nypLabelRules = []labelRule{
	{vocab.LabelLargePrint, has("lp")},
	{vocab.LabelBoardBook, has("bb")},
	// holiday titles are frequently young readers too; they shelve as holiday
	{vocab.LabelHoliday, has("hol")},
	{vocab.LabelYoungReader, has("yr")},
	{vocab.LabelClassics, has("cla")},
	{vocab.LabelBilingual, has("bil")},
}

var bplLabelRules = []labelRule{
	{vocab.LabelBoardBook, has("bb")},
	{vocab.LabelLargePrint, has("lp")},
	{vocab.LabelHoliday, has("hol")},
	{vocab.LabelYoungReader, has("yr")},
	// must precede the bare "s" bilingual code below
	{vocab.LabelReadAlong, has("soa")},
	{vocab.LabelClassics, has("cla")},
	{vocab.LabelLiteracyFiction, has("lit")},
	{vocab.LabelBilingual, has("s")},
}

// nypGenreRules refine a fiction location into a genre.
var nypGenreRules = []typeRule{
	{vocab.CallMystery, has("m")},
	// reference and young reader codes contain an r
	{vocab.CallRomance, hasExcept("r", "ref", "yr")},
	// "easy" contains an s
	{vocab.CallSciFi, hasExcept("s", "easy")},
	{vocab.CallWestern, has("w")},
	{vocab.CallUrban, has("u")},
	{vocab.CallGraphic, has("g")},
}

// NYP branch location codes: two letter branch, audience at index 2, a
// digit and the collection type at index 4.
var nypLocationTypes = map[byte]vocab.CallType{
	'p': vocab.CallPicture,
	'e': vocab.CallEasy,
	'f': vocab.CallFiction,
	'y': vocab.CallFiction,
	'n': vocab.CallDewey,
}

// BPL location codes: two digit branch, audience at index 2 and a two
// letter collection code at index 3.
var bplLocationTypes = map[string]vocab.CallType{
	"pb": vocab.CallPicture,
	"er": vocab.CallEasy,
	"fc": vocab.CallFiction,
	"my": vocab.CallMystery,
	"ro": vocab.CallRomance,
	"sf": vocab.CallSciFi,
	"we": vocab.CallWestern,
	"ur": vocab.CallUrban,
	"gn": vocab.CallGraphic,
	"bi": vocab.CallBiography,
	"nf": vocab.CallDewey,
}

// bplCompatibleLabels lists, per call type, the labels an order may carry
// without conflicting with it.
var bplCompatibleLabels = map[vocab.CallType][]vocab.CallLabel{
	vocab.CallPicture:   {vocab.LabelBoardBook, vocab.LabelHoliday, vocab.LabelBilingual, vocab.LabelReadAlong},
	vocab.CallEasy:      {vocab.LabelYoungReader, vocab.LabelHoliday, vocab.LabelBilingual, vocab.LabelReadAlong},
	vocab.CallFiction:   {vocab.LabelLargePrint, vocab.LabelHoliday, vocab.LabelYoungReader, vocab.LabelClassics, vocab.LabelBilingual, vocab.LabelReadAlong, vocab.LabelLiteracyFiction},
	vocab.CallMystery:   {vocab.LabelLargePrint},
	vocab.CallRomance:   {vocab.LabelLargePrint},
	vocab.CallSciFi:     {vocab.LabelLargePrint},
	vocab.CallWestern:   {vocab.LabelLargePrint},
	vocab.CallUrban:     {vocab.LabelLargePrint},
	vocab.CallGraphic:   {},
	vocab.CallBiography: {vocab.LabelLargePrint, vocab.LabelBilingual},
	vocab.CallDewey:     {vocab.LabelLargePrint, vocab.LabelHoliday, vocab.LabelBilingual, vocab.LabelReadAlong},
	vocab.CallNeutral:   {vocab.LabelBilingual},
}

// Fixed-field audience codes. Codes outside a map (including the "-" and
// "n" sentinels) carry no audience.
var fixedFieldAudiences = map[vocab.System]map[string]vocab.Audience{
	vocab.SystemNYP: {
		"a": vocab.AudienceAdult,
		"j": vocab.AudienceJuvenile,
		"y": vocab.AudienceYoungAdult,
	},
	vocab.SystemBPL: {
		"a": vocab.AudienceAdult,
		"e": vocab.AudienceJuvenile,
		"j": vocab.AudienceJuvenile,
		"y": vocab.AudienceYoungAdult,
	},
}

var locationAudiences = map[byte]vocab.Audience{
	'a': vocab.AudienceAdult,
	'j': vocab.AudienceJuvenile,
	'y': vocab.AudienceYoungAdult,
}
