package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// MaxTypoDistance is the largest Levenshtein distance at which a word list
// entry is offered as a correction.
const MaxTypoDistance = 2

var (
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)
	bulletListRegex   = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)

	//nolint:gochecknoglobals // lazily built lookup over the BIP39 word list
	wordSet = sync.OnceValue(func() map[string]struct{} {
		words := bip39.GetWordList()
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		return set
	})
)

// GenerateMnemonic creates a new 12 or 24 word BIP39 phrase.
func GenerateMnemonic(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return "", minterr.WithDetails(minterr.ErrInvalidInput, map[string]string{
			"words": strconv.Itoa(wordCount),
		})
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// NormalizeMnemonicInput lowercases a pasted phrase and strips list
// numbering, bullets, commas, and redundant whitespace.
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// ValidateMnemonic checks word count, word validity, and checksum. When
// words are misspelled the error suggests corrections.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonicInput(mnemonic)

	if n := len(strings.Fields(normalized)); n != 12 && n != 24 {
		return minterr.WithDetails(minterr.ErrInvalidMnemonic, map[string]string{
			"words": strconv.Itoa(n),
		})
	}

	if typos := DetectTypos(normalized); len(typos) > 0 {
		return minterr.WithSuggestion(minterr.ErrInvalidMnemonic, FormatTypoSuggestions(typos))
	}

	if _, err := bip39.MnemonicToByteArray(normalized); err != nil {
		return minterr.WithSuggestion(minterr.ErrInvalidMnemonic, "checksum does not match; check the word order")
	}
	return nil
}

// MnemonicToSeed validates a phrase and derives its 64-byte seed.
// The caller should zero the seed after use.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return bip39.NewSeed(NormalizeMnemonicInput(mnemonic), passphrase), nil
}

// IsValidWord reports whether word is in the BIP39 English list.
func IsValidWord(word string) bool {
	_, ok := wordSet()[strings.ToLower(word)]
	return ok
}

// SuggestWord returns the closest BIP39 word within MaxTypoDistance, or "".
func SuggestWord(input string) string {
	input = strings.ToLower(input)
	if IsValidWord(input) {
		return input
	}

	best, bestDist := "", math.MaxInt
	for _, w := range bip39.GetWordList() {
		if d := levenshtein.ComputeDistance(input, w); d < bestDist {
			best, bestDist = w, d
		}
	}
	if bestDist <= MaxTypoDistance {
		return best
	}
	return ""
}

// TypoInfo describes one word that is not in the word list.
type TypoInfo struct {
	Index      int // 0-based position in the phrase
	Word       string
	Suggestion string
	Distance   int
}

// DetectTypos lists every word of mnemonic that is not a BIP39 word.
func DetectTypos(mnemonic string) []TypoInfo {
	var typos []TypoInfo
	for i, word := range strings.Fields(NormalizeMnemonicInput(mnemonic)) {
		if IsValidWord(word) {
			continue
		}
		info := TypoInfo{Index: i, Word: word, Suggestion: SuggestWord(word)}
		if info.Suggestion != "" {
			info.Distance = levenshtein.ComputeDistance(word, info.Suggestion)
		}
		typos = append(typos, info)
	}
	return typos
}

// FormatTypoSuggestions renders typos one per line, 1-indexed.
func FormatTypoSuggestions(typos []TypoInfo) string {
	lines := make([]string, 0, len(typos))
	for _, typo := range typos {
		line := "word " + strconv.Itoa(typo.Index+1) + ": '" + typo.Word + "'"
		if typo.Suggestion != "" {
			line += " - did you mean '" + typo.Suggestion + "'?"
		} else {
			line += " is not a valid BIP39 word"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
