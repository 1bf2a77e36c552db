package linkport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DefaultEncoding кодировка строк по умолчанию.
const DefaultEncoding = "utf-8"

// Codec переводит строки между UTF-8 и кодировкой устройства.
// Декодирование с потерями: недопустимые последовательности отбрасываются.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// UTF8 кодек по умолчанию.
var UTF8 = Codec{name: DefaultEncoding, enc: unicode.UTF8}

// LookupCodec находит кодировку по метке WHATWG ("utf-8", "windows-1251", "cp866", "koi8-r" ...).
// Пустая метка означает UTF-8.
func LookupCodec(label string) (Codec, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return UTF8, nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return Codec{}, fmt.Errorf("linkport: unknown encoding %q", label)
	}
	return Codec{name: name, enc: enc}, nil
}

// Name каноническое имя кодировки.
func (c Codec) Name() string {
	if c.enc == nil {
		return UTF8.name
	}
	return c.name
}

func (c Codec) encoding() encoding.Encoding {
	if c.enc == nil {
		return unicode.UTF8
	}
	return c.enc
}

// Decode переводит байты устройства в UTF-8, выбрасывая всё, что не декодируется.
func (c Codec) Decode(b []byte) string {
	t := transform.Chain(c.encoding().NewDecoder(), runes.Remove(runes.Predicate(isReplacement)))
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "")
	}
	return string(out)
}

// Encode переводит строку в кодировку устройства; непредставимые символы заменяются.
func (c Codec) Encode(s string) ([]byte, error) {
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(c.encoding().NewEncoder()), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("linkport: encode to %s: %w", c.Name(), err)
	}
	return out, nil
}

func isReplacement(r rune) bool {
	return r == utf8.RuneError
}
