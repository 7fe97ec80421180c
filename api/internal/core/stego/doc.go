// Package stego embeds and extracts text in the least-significant bits of an
// image's color channels.
//
// Every input is normalized to an RGBImage: three 8-bit channels per pixel in
// row-major order, alpha discarded. One payload bit is stored per channel,
// walking pixels left to right, top to bottom, and channels R, G, B within a
// pixel. The payload is followed by the 16-bit terminator 0xFFFE, which cannot
// occur inside 7-bit ASCII text at any bit offset because every byte of such
// text has a zero high bit.
//
// The terminator is not an escaping scheme. Arbitrary binary payloads may
// produce an early match, and Decode drops every byte outside the printable
// ASCII and tab/newline/carriage-return set, so only text survives a round trip.
package stego
