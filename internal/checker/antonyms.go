// Package checker holds rule engines that read a meaning graph and report
// contradictions, vague references and discourse relations.
package checker

import (
	"regexp"
	"strings"
)

type antonymPair struct {
	a, b     string
	category string
}

// oxymoronPairs are checked inside a single label.
var oxymoronPairs = []antonymPair{
	{"tall", "short", "height"},
	{"big", "small", "size"},
	{"hot", "cold", "temperature"},
	{"fast", "slow", "speed"},
	{"heavy", "light", "weight"},
	{"dark", "light", "brightness"},
	{"happy", "sad", "emotion"},
	{"good", "bad", "quality"},
	{"true", "false", "truth"},
	{"dead", "alive", "state"},
	{"open", "closed", "state"},
	{"wet", "dry", "state"},
	{"hard", "soft", "texture"},
	{"loud", "quiet", "volume"},
	{"young", "old", "age"},
	{"new", "old", "age"},
}

// crossMessagePairs are checked across distinct nodes of a whole session.
var crossMessagePairs = []antonymPair{
	{a: "fast", b: "slow"},
	{a: "quick", b: "slow"},
	{a: "hot", b: "cold"},
	{a: "warm", b: "cold"},
	{a: "big", b: "small"},
	{a: "large", b: "small"},
	{a: "tall", b: "short"},
	{a: "high", b: "low"},
	{a: "good", b: "bad"},
	{a: "happy", b: "sad"},
	{a: "easy", b: "hard"},
	{a: "difficult", b: "easy"},
	{a: "strong", b: "weak"},
	{a: "light", b: "heavy"},
	{a: "bright", b: "dark"},
	{a: "clean", b: "dirty"},
	{a: "new", b: "old"},
	{a: "young", b: "old"},
	{a: "rich", b: "poor"},
	{a: "cheap", b: "expensive"},
	{a: "safe", b: "dangerous"},
	{a: "reliable", b: "unreliable"},
	{a: "stable", b: "unstable"},
}

var labelSplit = regexp.MustCompile(`[\s\-]+`)

// labelWords lowercases and splits a label on whitespace and hyphens,
// dropping words shorter than minLen.
func labelWords(label string, minLen int) map[string]bool {
	words := make(map[string]bool)
	for _, w := range labelSplit.Split(strings.ToLower(label), -1) {
		if len(w) >= minLen && w != "" {
			words[w] = true
		}
	}
	return words
}
