package cfgtext

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// DecodeQuotedString returns the text strictly between the first pair of
// double quotes in line.
//
// Example:
//
//	name, err := cfgtext.DecodeQuotedString(`DeviceName = "AUDIO_FRENZ001"`)
//	// name == "AUDIO_FRENZ001"
func DecodeQuotedString(line string) (string, error) {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return "", &ParseError{Text: line, Reason: "missing opening quote"}
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return "", &ParseError{Text: line, Reason: "missing closing quote"}
	}
	return line[start+1 : start+1+end], nil
}

// DecodeHexByteArray returns the whitespace-separated tokens between the first
// '[' and the first ']' after it. Tokens are returned verbatim as hex text.
//
// Example:
//
//	addr, err := cfgtext.DecodeHexByteArray("BD_ADDRESS = [ 0A 1B 2C ]")
//	// addr == []string{"0A", "1B", "2C"}
func DecodeHexByteArray(line string) ([]string, error) {
	body, err := bracketBody(line)
	if err != nil {
		return nil, err
	}
	return strings.Fields(body), nil
}

// DecodeHexEncodedASCII decodes a bracketed array of hex bytes into text.
// Whitespace inside the brackets is ignored; the remaining digits must form
// whole bytes that are valid UTF-8.
//
// Example:
//
//	sn, err := cfgtext.DecodeHexEncodedASCII("CUSTOMER0 = [ 41 42 31 32 ]")
//	// sn == "AB12"
func DecodeHexEncodedASCII(line string) (string, error) {
	body, err := bracketBody(line)
	if err != nil {
		return "", err
	}

	digits := strings.Join(strings.Fields(body), "")
	if len(digits)%2 != 0 {
		return "", &ParseError{Text: line, Reason: "odd number of hex digits"}
	}

	data, err := hex.DecodeString(digits)
	if err != nil {
		return "", &ParseError{Text: line, Reason: "invalid hex data", Err: err}
	}
	if !utf8.Valid(data) {
		return "", &ParseError{Text: line, Reason: "value is not valid UTF-8"}
	}

	return string(data), nil
}

// EncodeQuotedString renders `KEY = "value"`.
func EncodeQuotedString(key Key, value string) string {
	return string(key) + ` = "` + value + `"`
}

// EncodeHexByteArray renders `KEY = [ v0 v1 ... ]`: one space after the
// opening bracket and one space after every element, the form the config
// converter reads back.
//
// Example:
//
//	line := cfgtext.EncodeHexByteArray(cfgtext.KeyBTAddress, []string{"FF", "1B", "2C"})
//	// line == "BD_ADDRESS = [ FF 1B 2C ]"
func EncodeHexByteArray(key Key, values []string) string {
	var b strings.Builder
	b.WriteString(string(key))
	b.WriteString(" = [ ")
	for _, v := range values {
		b.WriteString(v)
		b.WriteByte(' ')
	}
	b.WriteByte(']')
	return b.String()
}

// EncodeHexEncodedASCII renders value as a hex-byte array, one lowercase
// two-digit element per UTF-8 byte.
func EncodeHexEncodedASCII(key Key, value string) string {
	data := []byte(value)
	values := make([]string, len(data))
	for i, c := range data {
		values[i] = hex.EncodeToString([]byte{c})
	}
	return EncodeHexByteArray(key, values)
}

// bracketBody returns the text strictly between the first '[' and the first
// ']' that follows it.
func bracketBody(line string) (string, error) {
	start := strings.IndexByte(line, '[')
	if start < 0 {
		return "", &ParseError{Text: line, Reason: "missing opening bracket"}
	}
	end := strings.IndexByte(line[start+1:], ']')
	if end < 0 {
		return "", &ParseError{Text: line, Reason: "missing closing bracket"}
	}
	return line[start+1 : start+1+end], nil
}
