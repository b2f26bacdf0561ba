package str

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Mask will mask a string by replacing the middle with asterisks.
func Mask(s string) string {
	l := len(s)
	if l == 0 {
		return s
	}
	if l == 1 {
		return "*"
	}
	h := int(l / 2)
	return s[0:h] + strings.Repeat("*", l-h)
}

// MaskURL returns a masked version of the URL string attempting to hide sensitive information.
func MaskURL(urlString string) (string, error) {
	u, err := url.Parse(urlString)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	var str strings.Builder
	str.WriteString(u.Scheme)
	str.WriteString("://")
	if u.User != nil {
		str.WriteString(Mask(u.User.Username()))
		pass, ok := u.User.Password()
		if ok {
			str.WriteString(":")
			str.WriteString(Mask(pass))
		}
		str.WriteString("@")
	}
	str.WriteString(u.Host)
	p := u.Path
	if p != "/" && p != "" {
		str.WriteString(p)
	}
	var qs []string
	for k, v := range u.Query() {
		qs = append(qs, fmt.Sprintf("%s=%s", k, Mask(strings.Join(v, ","))))
	}
	sort.Strings(qs)
	if len(qs) > 0 {
		str.WriteString("?")
		str.WriteString(strings.Join(qs, "&"))
	}
	return str.String(), nil
}

// MaskedString is a custom string type that masks its value when formatted or text-marshaled.
type MaskedString string

// Text returns the unmasked text value.
func (ms MaskedString) Text() string {
	return string(ms)
}

// String implements fmt.Stringer to return a masked representation.
func (ms MaskedString) String() string {
	if len(ms) == 0 {
		return ""
	}
	return Mask(string(ms))
}

// MarshalText implements encoding.TextMarshaler for masked text output.
func (ms MaskedString) MarshalText() ([]byte, error) {
	return []byte(ms.String()), nil
}

// MarshalJSON implements json.Marshaler for real (unmasked) JSON output.
func (ms MaskedString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(ms))
}

// MarshalYAML implements yaml.Marshaler for real (unmasked) YAML output.
func (ms MaskedString) MarshalYAML() (any, error) {
	return string(ms), nil
}

// GoString implements fmt.GoStringer so %#v also prints masked.
func (ms MaskedString) GoString() string {
	return ms.String()
}

// NewMaskedString returns a string using the special type MaskedString.
func NewMaskedString(s string) MaskedString {
	return MaskedString(s)
}
