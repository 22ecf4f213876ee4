package encoder

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaionaro-go/ffencoder/logger"
)

// CustomOption is one "-key=value" item of the free-text options field.
type CustomOption struct {
	Key   string
	Value string
}

type CustomOptions []CustomOption

// ErrMalformedOption is reported for tokens that are not "-key=value".
type ErrMalformedOption struct {
	Token  string
	Reason string
}

func (e ErrMalformedOption) Error() string {
	return fmt.Sprintf("option '%s' is malformed, %s", e.Token, e.Reason)
}

var simpleEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// ParseCustomOptions splits a shell-like option string into "-key=value"
// pairs. Unquoted spaces separate tokens; quotes group them. A quote
// character is kept only while at least two quotes are open, so the
// quote opening the second level is dropped but the one closing it is kept. Octal, hex and
// unicode escapes are not interpreted: "\N" drops the first digit, "\xNN"
// drops the whole sequence and "\u" drops the backslash. Malformed tokens
// are returned as errors and never abort parsing.
func ParseCustomOptions(text string) (CustomOptions, []error) {
	var (
		tokens []string
		cur    strings.Builder
		quotes []byte
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for p := 0; p < len(text); p++ {
		c := text[p]
		switch {
		case c == '\\':
			if p+1 >= len(text) {
				continue
			}
			next := text[p+1]
			switch {
			case next >= '0' && next <= '9':
				p++
			case next == 'x':
				p += 3
			case next == 'u':
			default:
				if r, ok := simpleEscapes[next]; ok {
					cur.WriteByte(r)
					p++
				}
			}
		case c == '\'' || c == '"':
			if len(quotes) > 1 {
				cur.WriteByte(c)
			}
			switch {
			case len(quotes) == 0:
				quotes = append(quotes, c)
			case quotes[len(quotes)-1] == c:
				quotes = quotes[:len(quotes)-1]
			default:
				quotes = append(quotes, c)
			}
		case c == ' ' && len(quotes) == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	var (
		opts CustomOptions
		errs []error
	)
	for _, token := range tokens {
		if token[0] != '-' {
			errs = append(errs, ErrMalformedOption{Token: token, Reason: "must start with a '-'"})
			continue
		}
		eq := strings.IndexByte(token, '=')
		if eq < 0 {
			errs = append(errs, ErrMalformedOption{Token: token, Reason: "must contain a '='"})
			continue
		}
		opts = append(opts, CustomOption{
			Key:   token[1:eq],
			Value: token[eq+1:],
		})
	}
	return opts, errs
}

// applyCustomOptions parses text and sets every option on cc. Nothing
// here is fatal: malformed tokens and rejected keys are logged.
func applyCustomOptions(
	ctx context.Context,
	cc CodecContext,
	text string,
) (applied int) {
	opts, errs := ParseCustomOptions(text)
	for _, err := range errs {
		logger.Warnf(ctx, "%v", err)
	}
	for _, opt := range opts {
		if err := cc.SetOption(ctx, opt.Key, opt.Value); err != nil {
			logger.Warnf(ctx, "option '-%s=%s' was rejected: %v", opt.Key, opt.Value, err)
			continue
		}
		applied++
	}
	return applied
}
