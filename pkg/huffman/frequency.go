package huffman

import (
	"slices"
)

// Symbol is one character of the message alphabet.
type Symbol = rune

// FrequencyTable maps each Symbol of a message to its number of occurrences.
type FrequencyTable map[Symbol]int

// Frequencies counts the occurrences of every Symbol in message.  An empty
// message yields an empty table.
func Frequencies(message string) FrequencyTable {
	freqs := make(FrequencyTable)
	for _, symbol := range message {
		freqs[symbol]++
	}
	return freqs
}

// Symbols returns the symbols of the table in ascending order.
func (f FrequencyTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(f))
	for symbol := range f {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	return symbols
}
