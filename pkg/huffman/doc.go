// Package huffman compresses a text message into a self-describing bit stream
// and back again.
//
// A stream is laid out as the concatenated prefix codes of every symbol, zero
// padding up to (and, when already aligned, including a full) byte boundary,
// and a trailing 32 bit fidelity checksum sent least significant bit first.
//
// The checksum is not an error detecting code.  It is a weighted bit sum that
// lets the receiver estimate how much of a stream was lost in transit.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
