package signing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/sparkle-appcast/internal/domain/appcast"
)

var (
	// errEmptyInput is returned when the signing output holds no attributes.
	errEmptyInput = errors.New("signing output is empty")
	// errMalformedToken is returned when a token is not a key=value pair.
	errMalformedToken = errors.New("malformed signing attribute")
)

// Parse reads signing-tool output: whitespace-separated key=value tokens
// with optionally double-quoted values. Quotes are stripped; key order is
// preserved. Every token must contain an equals sign.
func Parse(data []byte) (appcast.Attributes, error) {
	tokens := strings.Fields(string(data))
	if len(tokens) == 0 {
		return nil, errEmptyInput
	}

	attrs := make(appcast.Attributes, 0, len(tokens))

	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errMalformedToken, token)
		}

		attrs = append(attrs, appcast.Attribute{
			Key:   key,
			Value: unquote(value),
		})
	}

	return attrs, nil
}

// ParseFile reads and parses signing-tool output from the given path.
func ParseFile(path string) (appcast.Attributes, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read signing output: %w", err)
	}

	attrs, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return attrs, nil
}

// unquote strips one pair of surrounding double quotes when present.
func unquote(value string) string {
	if strings.HasPrefix(value, `"`) {
		value = strings.TrimSuffix(value[1:], `"`)
	}

	return value
}
